package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-consultant-bot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"ответ"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	answer, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: "model", Content: "earlier"},
	}, llm.WithTemperature(0.5), llm.WithFrequencyPenalty(1))

	require.NoError(t, err)
	assert.Equal(t, "ответ", answer)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
	require.NotNil(t, got.Options)
	assert.Equal(t, 0.5, got.Options.Temperature)
	assert.Equal(t, 1.0, got.Options.FrequencyPenalty)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmpty bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"model not found"}`},
		{name: "malformed json", status: http.StatusOK, body: `{"message":`},
		{name: "empty content", status: http.StatusOK, body: `{"message":{"role":"assistant","content":""},"done":true}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "llama3").Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "q"}})

			require.Error(t, err)
			if tt.wantEmpty {
				assert.ErrorIs(t, err, llm.ErrEmptyResponse)
			}
		})
	}
}

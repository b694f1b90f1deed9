package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-consultant-bot/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := goopenai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIProviderWithConfig(cfg, "gpt-4o")
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
	})
}

func TestChatSendsMessagesAndSampling(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "Ваше число — 7.")
	})

	answer, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "system"},
		{Role: llm.RoleUser, Content: "question"},
	}, llm.WithTemperature(0.5), llm.WithFrequencyPenalty(1.0))

	require.NoError(t, err)
	assert.Equal(t, "Ваше число — 7.", answer)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "question", got.Messages[1].Content)
	assert.InDelta(t, 0.5, got.Temperature, 1e-6)
	assert.InDelta(t, 1.0, got.FrequencyPenalty, 1e-6)
}

func TestChatServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "q"}})

	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestChatEmptyChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "   ")
	})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "q"}})

	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

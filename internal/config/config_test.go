package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/bot")
	t.Setenv("SYSTEM_PROMPT_URL", "https://docs.google.com/document/d/sys/edit")
	t.Setenv("KNOWLEDGE_BASE_URL", "https://docs.google.com/document/d/kb/edit")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "openai", cfg.Ai.LLMProvider)
	assert.Equal(t, 0.5, cfg.Ai.Temperature)
	assert.Equal(t, 1.0, cfg.Ai.FrequencyPenalty)
	assert.Equal(t, 60*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Dialog.FollowUpDelay)
	assert.Equal(t, 5000, cfg.Dialog.SummaryMaxSize)
	assert.Equal(t, 4, cfg.Dialog.TopK)
	assert.Equal(t, 1024, cfg.Corpus.ChunkSize)
	assert.Equal(t, "memory", cfg.Corpus.IndexBackend)
	require.NoError(t, cfg.Validate())
}

func TestLoadAdminUsernames(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_USERNAMES", "alice, bob,,Carol ")

	cfg := Load()

	assert.Equal(t, []string{"alice", "bob", "Carol"}, cfg.Telegram.AdminUsernames)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "valid", env: map[string]string{}},
		{name: "missing bot token", env: map[string]string{"TELEGRAM_BOT_TOKEN": ""}, wantErr: true},
		{name: "missing openai key", env: map[string]string{"OPENAI_API_KEY": ""}, wantErr: true},
		{
			name: "ollama does not need openai key",
			env: map[string]string{
				"OPENAI_API_KEY":     "",
				"LLM_PROVIDER":       "ollama",
				"EMBEDDING_PROVIDER": "ollama",
			},
		},
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "claude"}, wantErr: true},
		{name: "unknown index backend", env: map[string]string{"INDEX_BACKEND": "faiss"}, wantErr: true},
		{name: "temperature out of range", env: map[string]string{"LLM_TEMPERATURE": "3.5"}, wantErr: true},
		{name: "bad webhook url", env: map[string]string{"TELEGRAM_WEBHOOK_URL": "not a url"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := Load().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Keys     APIKeys
	Ai       AIConfig
	Corpus   CorpusConfig
	Dialog   DialogConfig
}

type AppConfig struct {
	Port         string `validate:"required,numeric"`
	Environment  string `validate:"required"`
	LogFilePath  string `validate:"required"`
	LLMLogPath   string
	NatsURL      string
	RedisURL     string
	OtelEnabled  bool
	OtelEndpoint string
}

type DatabaseConfig struct {
	Connection string `validate:"required"`
}

type TelegramConfig struct {
	BotToken       string `validate:"required"`
	WebhookURL     string `validate:"omitempty,url"`
	WebhookPath    string `validate:"required,startswith=/"`
	WebhookSecret  string
	AdminUsernames []string
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	LLMProvider       string  `validate:"oneof=openai ollama"`
	LLMModel          string  `validate:"required"`
	EmbeddingProvider string  `validate:"oneof=openai ollama"`
	EmbeddingModel    string  `validate:"required"`
	OllamaBaseURL     string  `validate:"omitempty,url"`
	Temperature       float64 `validate:"gte=0,lte=2"`
	FrequencyPenalty  float64 `validate:"gte=-2,lte=2"`
	Timeout           time.Duration
}

type CorpusConfig struct {
	SystemPromptSource  string `validate:"required"`
	KnowledgeBaseSource string `validate:"required"`
	ChunkSize           int    `validate:"gt=0"`
	IndexBackend        string `validate:"oneof=memory pgvector"`
}

type DialogConfig struct {
	FollowUpDelay  time.Duration
	DedupWindow    time.Duration
	SummaryMaxSize int `validate:"gt=0"`
	TopK           int `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:         getEnv("APP_PORT", "3000"),
			Environment:  getEnv("GO_ENV", "development"),
			LogFilePath:  getEnv("LOG_FILE_PATH", "bot.log"),
			LLMLogPath:   getEnv("LLM_LOG_FILE_PATH", "logs/llm_rag.log"),
			NatsURL:      getEnv("NATS_URL", ""),
			RedisURL:     getEnv("REDIS_URL", ""),
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			WebhookURL:     getEnv("TELEGRAM_WEBHOOK_URL", ""),
			WebhookPath:    getEnv("TELEGRAM_WEBHOOK_PATH", "/api/telegram/webhook"),
			WebhookSecret:  getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
			AdminUsernames: getEnvAsList("ADMIN_USERNAMES"),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.5),
			FrequencyPenalty:  getEnvAsFloat("LLM_FREQUENCY_PENALTY", 1.0),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Corpus: CorpusConfig{
			SystemPromptSource:  getEnv("SYSTEM_PROMPT_URL", ""),
			KnowledgeBaseSource: getEnv("KNOWLEDGE_BASE_URL", ""),
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 1024),
			IndexBackend:        getEnv("INDEX_BACKEND", "memory"),
		},
		Dialog: DialogConfig{
			FollowUpDelay:  getEnvAsDuration("FOLLOW_UP_DELAY", 3*time.Second),
			DedupWindow:    getEnvAsDuration("DEDUP_WINDOW", 10*time.Minute),
			SummaryMaxSize: getEnvAsInt("SUMMARY_MAX_SIZE", 5000),
			TopK:           getEnvAsInt("RETRIEVAL_TOP_K", 4),
		},
	}
}

// Validate checks the loaded values. Missing credentials are reported here so
// that main can abort before any network call is made.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if (c.Ai.LLMProvider == "openai" || c.Ai.EmbeddingProvider == "openai") && c.Keys.OpenAI == "" {
		return fmt.Errorf("invalid configuration: OPENAI_API_KEY is required for the openai provider")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

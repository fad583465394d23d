// Package config loads service configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection (manual corpus)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM generation
	LLMProvider     Provider
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	BedrockModelID  string

	// Embeddings (retrieval queries and manual ingestion)
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int

	// Seed data
	AlertsFile string
	ManualsDir string

	// Retrieval
	RetrievalK int

	// HTTP server
	ServerPort string
	AdminKey   string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "fixity"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "manuals"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(getEnv("FIXITY_LLM_PROVIDER", "ollama")),
		LLMModel:        getEnv("FIXITY_LLM_MODEL", "llama3.2"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		BedrockModelID:  getEnv("FIXITY_BEDROCK_MODEL", "anthropic.claude-3-haiku-20240307-v1:0"),

		EmbedProvider:  Provider(getEnv("FIXITY_EMBED_PROVIDER", "ollama")),
		EmbedModel:     getEnv("FIXITY_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getEnvInt("FIXITY_EMBED_DIMENSION", 384),

		AlertsFile: getEnv("FIXITY_ALERTS_FILE", "dummy_data/telemetry_alerts.json"),
		ManualsDir: getEnv("FIXITY_MANUALS_DIR", "dummy_data/manuals"),

		RetrievalK: getEnvInt("FIXITY_RETRIEVAL_K", 6),

		ServerPort: getEnv("FIXITY_SERVER_PORT", "8000"),
		AdminKey:   os.Getenv("FIXITY_ADMIN_KEY"),

		LogFile:  getEnv("FIXITY_LOG_FILE", "/tmp/fixity.log"),
		LogLevel: parseLogLevel(getEnv("FIXITY_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer env value, using default", "key", key, "value", val, "default", defaultVal)
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

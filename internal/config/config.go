package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Ai       AIConfig
	Lookbook LookbookConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	ActivityTopic      string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type CatalogConfig struct {
	// DataRoot holds one directory per category with metadata.jsonl plus
	// style_vectors.jsonl / situation_vectors.jsonl files.
	DataRoot string
	// IndexBackend selects "memory" (jsonl files) or "postgres" (pgvector).
	IndexBackend string
}

type SessionConfig struct {
	MaxSessions          int
	IdleTTLMinutes       int
	SweepIntervalMinutes int
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	GoogleGeminiKey   string
}

type LookbookConfig struct {
	Backend string // "redis" or "memory"
	TTLDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ActivityTopic:      getEnv("SESSION_ACTIVITY_TOPIC_NAME", "SESSION_ACTIVITY"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "stylist"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			DataRoot:     getEnv("CATALOG_DATA_ROOT", "./data"),
			IndexBackend: getEnv("INDEX_BACKEND", "memory"),
		},
		Session: SessionConfig{
			MaxSessions:          getEnvAsInt("SESSION_MAX_COUNT", 20),
			IdleTTLMinutes:       getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 30),
			SweepIntervalMinutes: getEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 5),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Lookbook: LookbookConfig{
			Backend: getEnv("LOOKBOOK_BACKEND", "memory"),
			TTLDays: getEnvAsInt("LOOKBOOK_TTL_DAYS", 7),
		},
	}
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

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the assistant service.
type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Storage   StorageConfig
	Retrieval RetrievalConfig
	Session   SessionConfig
	Cache     CacheConfig
	AI        AIConfig
}

// ServerConfig holds HTTP layer configuration.
type ServerConfig struct {
	Port           string
	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// KnowledgeConfig holds corpus loading configuration.
type KnowledgeConfig struct {
	DataPath string
}

// StorageConfig selects the document store backend.
type StorageConfig struct {
	Backend    string
	SQLitePath string
}

// RetrievalConfig holds retrieval engine configuration.
type RetrievalConfig struct {
	TopK           int
	TuningPath     string
	EnableStemming bool
}

// SessionConfig bounds the session store.
type SessionConfig struct {
	Timeout         time.Duration
	MaxSessions     int
	CleanupInterval time.Duration
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// AIConfig holds generation provider configuration.
type AIConfig struct {
	Provider      string
	GeminiBaseURL string
	GeminiModel   string
	GeminiAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIAPIKey  string
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           GetStringEnv("PORT", ":8080"),
			AllowedOrigin:  GetStringEnv("ALLOWED_ORIGIN", "*"),
			RateLimitRPS:   GetFloatEnv("RATE_LIMIT_RPS", 2),
			RateLimitBurst: GetIntEnv("RATE_LIMIT_BURST", 10),
			RequestTimeout: GetDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		},
		Knowledge: KnowledgeConfig{
			DataPath: GetStringEnv("PORTFOLIO_DATA_PATH", ""),
		},
		Storage: StorageConfig{
			Backend:    GetStringEnv("STORAGE_BACKEND", "memory"),
			SQLitePath: GetStringEnv("STORAGE_SQLITE_PATH", "data/portfolio.db"),
		},
		Retrieval: RetrievalConfig{
			TopK:           GetIntEnv("RETRIEVAL_TOP_K", 3),
			TuningPath:     GetStringEnv("RETRIEVAL_TUNING_PATH", ""),
			EnableStemming: GetBoolEnv("RETRIEVAL_ENABLE_STEMMING", false),
		},
		Session: SessionConfig{
			Timeout:         GetDurationEnv("SESSION_TIMEOUT", 60*time.Minute),
			MaxSessions:     GetIntEnv("SESSION_MAX", 1000),
			CleanupInterval: GetDurationEnv("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Cache: CacheConfig{
			Enabled:    GetBoolEnv("CACHE_ENABLED", true),
			TTL:        GetDurationEnv("CACHE_TTL", time.Hour),
			MaxEntries: GetIntEnv("CACHE_MAX_ENTRIES", 500),
		},
		AI: AIConfig{
			Provider:      GetStringEnv("AI_PROVIDER", "gemini"),
			GeminiBaseURL: GetStringEnv("GEMINI_BASE_URL", ""),
			GeminiModel:   GetStringEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiAPIKey:  GetStringEnv("GEMINI_API_KEY", ""),
			OpenAIBaseURL: GetStringEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:   GetStringEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			OpenAIAPIKey:  GetStringEnv("OPENAI_API_KEY", ""),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	Storage     string // "postgres" or "memory"
	CORSOrigins string
	TablePrefix string
	// Auth
	AuthJWKSURL   string
	AuthJWTSecret string
	DevUserID     string // Injected as the caller in dev when no verifier is configured
	// AI provider
	AIProvider       string // "openai", "anthropic", "openrouter" or "lorem"
	AIModel          string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	OpenRouterAPIKey string
	AIMaxAttempts    int
	AIRetryDelay     time.Duration
	AIRetryMaxDelay  time.Duration
	AIRequestTimeout time.Duration
	// Authoring
	RefinementHistoryLimit  int
	GenerationContextWindow int
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	provider := getEnv("AI_PROVIDER", "openai")

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Storage:       getEnv("STORAGE", "postgres"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		TablePrefix:   getTablePrefix(env),
		AuthJWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		DevUserID:     getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
		// AI provider
		AIProvider:       provider,
		AIModel:          getEnv("AI_MODEL", defaultModel(provider)),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		AIMaxAttempts:    getEnvInt("AI_MAX_ATTEMPTS", 3),
		AIRetryDelay:     getEnvDuration("AI_RETRY_DELAY", time.Second),
		AIRetryMaxDelay:  getEnvDuration("AI_RETRY_MAX_DELAY", 8*time.Second),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 90*time.Second),
		// Authoring
		RefinementHistoryLimit:  getEnvInt("REFINEMENT_HISTORY_LIMIT", DefaultRefinementHistoryLimit),
		GenerationContextWindow: getEnvInt("GENERATION_CONTEXT_WINDOW", DefaultGenerationContextWindow),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
	}
}

// defaultModel returns the model used when AI_MODEL is not set
func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-haiku-4-5-20251001"
	case "openrouter":
		return "anthropic/claude-haiku-4.5"
	case "lorem":
		return "lorem-fast"
	default:
		return "gpt-4o-mini"
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

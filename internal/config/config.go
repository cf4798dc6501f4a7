package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	GinMode    string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	StreamLockTTL time.Duration `envconfig:"STREAM_LOCK_TTL" default:"2m"`

	// GeminiAPIKey is optional at startup. Without it the quiz still works,
	// only result generation answers with a setup error.
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL string        `envconfig:"GEMINI_BASE_URL"`
	Temperature   float32       `envconfig:"LLM_TEMPERATURE" default:"0.9"`
	StreamTimeout time.Duration `envconfig:"LLM_STREAM_TIMEOUT" default:"60s"`

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process startup; malformed values are fatal.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LLMConfigured reports whether result generation can be attempted.
func (c *Config) LLMConfigured() bool {
	return c.GeminiAPIKey != ""
}

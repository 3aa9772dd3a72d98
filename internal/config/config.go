package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Server
	Port          int    `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`          // "json" or "text"
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Hosted provider (Provider A)
	HostedProvider string `env:"HOSTED_PROVIDER" envDefault:"gemini"` // "gemini" or "openai"
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiBaseURL  string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiModel    string `env:"GEMINI_MODEL"` // empty selects a model by discovery
	OpenAIKey      string `env:"OPENAI_API_KEY"`
	OpenAIModel    string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Local provider (Provider B); empty URL disables it
	OllamaURL   string `env:"OLLAMA_URL"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"gemma:2b"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"60s"`

	// Sessions
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"` // "memory" or "redis"
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// Events (optional NATS notifications)
	EventsURL string `env:"EVENTS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// LocalEnabled reports whether the local provider is configured.
func (c Config) LocalEnabled() bool {
	return c.OllamaURL != ""
}

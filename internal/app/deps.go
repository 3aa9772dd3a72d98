package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"essentia/internal/config"
	"essentia/internal/events"
	"essentia/internal/logger"
	"essentia/internal/provider"
	"essentia/internal/session"
	"essentia/internal/summarize"
)

// Deps bundles the runtime dependencies shared by the server and the CLI.
type Deps struct {
	Config       config.Config
	Log          *slog.Logger
	Sessions     session.Store
	Events       events.Publisher
	Orchestrator *summarize.Orchestrator

	// Hosted and Local are the generators wired into Orchestrator; Local is
	// nil unless configured. The CLI uses them to rebuild the orchestrator
	// when the local provider is requested per invocation.
	Hosted provider.Generator
	Local  provider.Generator

	// Gemini is set only when the hosted provider is gemini; it backs the
	// model-listing endpoint.
	Gemini *provider.GeminiClient

	// HostedModel is the model the hosted provider generates with.
	HostedModel string
}

// Build loads env, config, and shared components. A missing credential for
// the selected hosted provider is a fatal startup condition.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	hosted, gemini, model, err := buildHosted(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize hosted provider: %w", err)
	}

	var local provider.Generator
	if cfg.LocalEnabled() {
		ollama := provider.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.ProviderTimeout)
		log.Info("using local provider", "url", cfg.OllamaURL, "model", ollama.Model())
		local = ollama
	}

	sessions, err := buildSessions(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize session store: %w", err)
	}
	publisher, err := buildEvents(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}

	return Deps{
		Config:       cfg,
		Log:          log,
		Sessions:     sessions,
		Events:       publisher,
		Orchestrator: summarize.New(hosted, local, log, cfg.ProviderTimeout),
		Hosted:       hosted,
		Local:        local,
		Gemini:       gemini,
		HostedModel:  model,
	}, nil
}

func buildHosted(cfg config.Config, log *slog.Logger) (provider.Generator, *provider.GeminiClient, string, error) {
	switch cfg.HostedProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil, "", fmt.Errorf("GEMINI_API_KEY is required when HOSTED_PROVIDER=gemini; set it in the environment or a .env file")
		}
		client, err := provider.NewGeminiClient(provider.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Timeout: cfg.ProviderTimeout,
		})
		if err != nil {
			return nil, nil, "", err
		}
		model := cfg.GeminiModel
		if model == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			model, err = client.DiscoverModel(ctx, provider.DefaultGeminiPreferences)
			if err != nil {
				return nil, nil, "", fmt.Errorf("gemini model discovery failed: %w", err)
			}
		}
		log.Info("using Gemini provider", "model", model)
		return client, client, model, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, nil, "", fmt.Errorf("OPENAI_API_KEY is required when HOSTED_PROVIDER=openai")
		}
		client, err := provider.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.OpenAIModel), cfg.ProviderTimeout)
		if err != nil {
			return nil, nil, "", err
		}
		log.Info("using OpenAI provider", "model", cfg.OpenAIModel)
		return client, nil, cfg.OpenAIModel, nil
	default:
		return nil, nil, "", fmt.Errorf("invalid HOSTED_PROVIDER: %s (valid options: gemini, openai)", cfg.HostedProvider)
	}
}

func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case "memory":
		log.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
		store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using redis session store", "addr", cfg.RedisAddr)
		return store, nil
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE: %s (valid options: memory, redis)", cfg.SessionStore)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	if cfg.EventsURL == "" {
		return events.NewNoop(), nil
	}
	nc, err := nats.Connect(cfg.EventsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("publishing summary events", "url", cfg.EventsURL)
	return events.NewNATS(log, nc), nil
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.HostedProvider != "gemini" {
		t.Errorf("expected default hosted provider gemini, got %s", cfg.HostedProvider)
	}
	if cfg.SessionStore != "memory" {
		t.Errorf("expected default session store memory, got %s", cfg.SessionStore)
	}
	if cfg.ProviderTimeout != 60*time.Second {
		t.Errorf("expected default provider timeout 60s, got %v", cfg.ProviderTimeout)
	}
	if cfg.LocalEnabled() {
		t.Error("local provider should be disabled without OLLAMA_URL")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOSTED_PROVIDER", "openai")
	t.Setenv("OLLAMA_URL", "http://localhost:11434")
	t.Setenv("SESSION_TTL", "30m")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.HostedProvider != "openai" {
		t.Errorf("expected hosted provider openai, got %s", cfg.HostedProvider)
	}
	if !cfg.LocalEnabled() {
		t.Error("local provider should be enabled with OLLAMA_URL set")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %v", cfg.SessionTTL)
	}
}

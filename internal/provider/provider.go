package provider

import (
	"context"
	"errors"
)

// Generator is a minimal text-generation interface to allow pluggable providers.
type Generator interface {
	// Generate produces text for the given prompt. The call blocks until the
	// provider responds or ctx is done.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g. "gemini", "ollama").
	Name() string
}

// ErrNoModel is returned by model discovery when the provider advertises no
// generation-capable model.
var ErrNoModel = errors.New("no generation-capable model available")

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

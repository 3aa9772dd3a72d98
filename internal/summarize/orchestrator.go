// Package summarize coordinates one or two generation providers to turn
// user-supplied text into a single summary. With two providers configured the
// candidates are reconciled through a further merge call; every provider
// failure degrades to the best text still available rather than surfacing as
// a hard error, as long as at least one provider produced something.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"essentia/internal/prompt"
	"essentia/internal/provider"
)

// Origin tags where a summary's text came from.
type Origin string

const (
	// OriginPrimary means the hosted provider's text, unmodified.
	OriginPrimary Origin = "primary"
	// OriginSecondary means the local provider's text, unmodified.
	OriginSecondary Origin = "secondary"
	// OriginMerged covers both the reconciliation call and its
	// concatenation fallback; a fallback records a note.
	OriginMerged Origin = "merged"
)

// ErrEmptyInput is returned for empty or whitespace-only input. No provider
// call is made in that case.
var ErrEmptyInput = errors.New("input text is empty")

// Request is a single summarization request.
type Request struct {
	Text  string
	Style prompt.Style
}

// Summary is the final result handed back to the caller.
type Summary struct {
	Text   string   `json:"text"`
	Origin Origin   `json:"origin"`
	Notes  []string `json:"notes,omitempty"`
}

// Orchestrator runs the summarize-and-reconcile workflow. The secondary
// provider is optional; calls are sequential, never parallel.
type Orchestrator struct {
	primary   provider.Generator
	secondary provider.Generator
	log       *slog.Logger
	timeout   time.Duration
}

// New builds an orchestrator. secondary may be nil for single-provider mode.
func New(primary, secondary provider.Generator, log *slog.Logger, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		log:       log,
		timeout:   timeout,
	}
}

// Summarize executes the full workflow for one request.
func (o *Orchestrator) Summarize(ctx context.Context, req Request) (Summary, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Summary{}, ErrEmptyInput
	}

	p := prompt.Build(req.Text, req.Style)

	primaryText, primaryErr := o.call(ctx, o.primary, p)
	if o.secondary == nil {
		if primaryErr != nil {
			return Summary{}, fmt.Errorf("%s: %w", o.primary.Name(), primaryErr)
		}
		return Summary{Text: primaryText, Origin: OriginPrimary}, nil
	}

	secondaryText, secondaryErr := o.call(ctx, o.secondary, p)

	switch {
	case primaryErr == nil && secondaryErr == nil:
		return o.reconcile(ctx, primaryText, secondaryText, req.Style), nil
	case primaryErr == nil:
		return Summary{
			Text:   primaryText,
			Origin: OriginPrimary,
			Notes:  []string{fmt.Sprintf("%s failed: %v", o.secondary.Name(), secondaryErr)},
		}, nil
	case secondaryErr == nil:
		return Summary{
			Text:   secondaryText,
			Origin: OriginSecondary,
			Notes:  []string{fmt.Sprintf("%s failed: %v", o.primary.Name(), primaryErr)},
		}, nil
	default:
		return Summary{}, fmt.Errorf("all providers failed: %s: %v; %s: %v",
			o.primary.Name(), primaryErr, o.secondary.Name(), secondaryErr)
	}
}

// reconcile merges two successful candidates through the primary provider.
// If the merge call itself fails, both candidates are returned joined by a
// blank line.
func (o *Orchestrator) reconcile(ctx context.Context, a, b string, style prompt.Style) Summary {
	merged, err := o.call(ctx, o.primary, prompt.BuildMerge(a, b, style))
	if err != nil {
		return Summary{
			Text:   a + "\n\n" + b,
			Origin: OriginMerged,
			Notes:  []string{fmt.Sprintf("reconciliation failed, returning both summaries: %v", err)},
		}
	}
	return Summary{Text: merged, Origin: OriginMerged}
}

func (o *Orchestrator) call(ctx context.Context, g provider.Generator, p string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.Generate(callCtx, p)
	if err != nil {
		o.log.Warn("provider call failed",
			"provider", g.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
			"err", err,
		)
		return "", err
	}
	o.log.Info("provider call completed",
		"provider", g.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(text),
	)
	return text, nil
}

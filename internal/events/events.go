// Package events publishes summary-completion notifications so other
// frontends or dashboards can observe activity. Publishing is best-effort:
// failures are logged by callers and never surfaced to the user.
package events

import (
	"context"
	"time"

	"essentia/internal/retry"
)

// Completed is emitted once a summary has been produced for a session.
type Completed struct {
	SessionID string    `json:"session_id"`
	Origin    string    `json:"origin"`
	Style     string    `json:"style"`
	Chars     int       `json:"chars"`
	At        time.Time `json:"at"`
}

// Publisher exposes a minimal contract to emit notifications.
type Publisher interface {
	Publish(ctx context.Context, ev Completed) error
	Close() error
}

// PublishWithRetry attempts to publish with capped exponential backoff
// between attempts.
func PublishWithRetry(ctx context.Context, p Publisher, ev Completed, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = p.Publish(ctx, ev); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Backoff(attempt, base, 5*time.Second)):
		}
	}
	return lastErr
}

// Package session holds the per-session interactive state: the last input,
// the chosen style, and the last produced summary. A session moves between
// Idle (no summary) and Ready (summary stored); changing the input or asking
// to regenerate puts it back to Idle.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"essentia/internal/prompt"
	"essentia/internal/summarize"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is the state carried across one user's interactions.
type Session struct {
	ID        uuid.UUID          `json:"id"`
	Input     string             `json:"input"`
	Style     prompt.Style       `json:"style"`
	Summary   *summarize.Summary `json:"summary,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Ready reports whether the session holds a summary for its current input.
func (s *Session) Ready() bool {
	return s != nil && s.Summary != nil
}

// Matches reports whether the stored input and style are unchanged, i.e. the
// stored summary is still valid for this request.
func (s *Session) Matches(input string, style prompt.Style) bool {
	return s != nil && s.Input == input && s.Style == style
}

// Store persists sessions with a TTL.
type Store interface {
	// Get retrieves a session; ErrNotFound if absent or expired.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Put stores a session. A non-positive ttl means no expiry.
	Put(ctx context.Context, s *Session, ttl time.Duration) error

	// Delete removes a session; deleting an absent session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases the store's resources.
	Close() error
}

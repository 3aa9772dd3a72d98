package events

import "context"

// NoopPublisher drops all notifications. Used when no events backend is
// configured; every publish succeeds.
type NoopPublisher struct{}

// NewNoop creates a publisher that does nothing.
func NewNoop() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(context.Context, Completed) error { return nil }

func (p *NoopPublisher) Close() error { return nil }

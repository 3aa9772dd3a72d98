package retry

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		result := Backoff(tt.attempt, base, 0)
		if result != tt.expected {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, result, tt.expected)
		}
	}
}

func TestBackoffClampedToMax(t *testing.T) {
	got := Backoff(10, time.Second, 5*time.Second)
	if got != 5*time.Second {
		t.Errorf("got %v, want clamp to 5s", got)
	}
}

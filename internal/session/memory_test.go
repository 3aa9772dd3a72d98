package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"essentia/internal/prompt"
	"essentia/internal/summarize"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := &Session{
		ID:    uuid.New(),
		Input: "some text",
		Style: prompt.StyleBullet,
		Summary: &summarize.Summary{
			Text:   "- a summary",
			Origin: summarize.OriginPrimary,
		},
		UpdatedAt: time.Now(),
	}
	if err := store.Put(ctx, s, 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Input != s.Input || !got.Ready() {
		t.Errorf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := &Session{ID: uuid.New(), Input: "text", Style: prompt.StyleParagraph}
	if err := store.Put(ctx, s, time.Millisecond); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := &Session{ID: uuid.New(), Input: "original"}
	if err := store.Put(ctx, s, 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Input = "mutated"

	again, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Input != "original" {
		t.Error("store should not expose its internal session to mutation")
	}
}

func TestMemoryStoreSummaryNotShared(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := &summarize.Summary{
		Text:   "- a summary",
		Origin: summarize.OriginMerged,
		Notes:  []string{"reconciliation failed, returning both summaries: timeout"},
	}
	s := &Session{ID: uuid.New(), Input: "text", Summary: original}
	if err := store.Put(ctx, s, 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Mutating the summary handed in or handed out must not reach the store.
	original.Text = "mutated after put"

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Summary.Text != "- a summary" {
		t.Errorf("put did not copy the summary: %q", got.Summary.Text)
	}
	got.Summary.Text = "mutated after get"
	got.Summary.Notes[0] = "mutated note"

	again, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Summary.Text != "- a summary" {
		t.Error("get must not expose the stored summary to mutation")
	}
	if again.Summary.Notes[0] != "reconciliation failed, returning both summaries: timeout" {
		t.Error("get must not expose the stored notes to mutation")
	}
}

func TestSessionMatches(t *testing.T) {
	s := &Session{Input: "text", Style: prompt.StyleBullet}

	if !s.Matches("text", prompt.StyleBullet) {
		t.Error("expected match for identical input and style")
	}
	if s.Matches("other text", prompt.StyleBullet) {
		t.Error("changed input must not match")
	}
	if s.Matches("text", prompt.StyleParagraph) {
		t.Error("changed style must not match")
	}

	var nilSession *Session
	if nilSession.Matches("text", prompt.StyleBullet) || nilSession.Ready() {
		t.Error("nil session should never match or be ready")
	}
}

package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. It is the default store and
// sufficient for a single-instance deployment; expiry is checked lazily on
// read.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	session Session
	expires time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[uuid.UUID]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.items[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		m.mu.Lock()
		delete(m.items, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	s := cloneSession(&entry.session)
	return &s, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session, ttl time.Duration) error {
	entry := memoryEntry{session: cloneSession(s)}
	if ttl > 0 {
		entry.expires = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[s.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// cloneSession copies the session deeply enough that neither the caller nor
// the store can mutate the other's summary.
func cloneSession(s *Session) Session {
	out := *s
	if s.Summary != nil {
		sum := *s.Summary
		sum.Notes = slices.Clone(sum.Notes)
		out.Summary = &sum
	}
	return out
}

// internal/store/memory.go
//
// In-memory session store for solver attempts.
//
// Characteristics:
//   - Sessions are stored by value keyed by ID; Get returns a copy, so callers
//     never share a session with a concurrent request.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; solver state is never persisted.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

var ErrNotFound = errors.New("store: session not found")

// Session is one browser's solver attempt plus the settings it was started with.
type Session struct {
	ID          string
	ExcludePast bool
	WordInfo    string // dictionary description shown to the player
	Attempt     solver.Attempt
	StartedAt   time.Time
	UpdatedAt   time.Time
	Recorded    bool // finished attempt already written to history
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes a session; missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of stored sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]Session)}
}

func (m *memory) Save(ctx context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("store: session without id")
	}
	s.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return Session{}, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

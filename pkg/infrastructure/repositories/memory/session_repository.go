package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/planviz/pkg/application/session"
)

// SessionRepository keeps sessions in a map keyed by uuid
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	factory  session.ControllerFactory
}

// Verify interface compliance
var _ session.Repository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty repository
func NewSessionRepository(factory session.ControllerFactory) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*session.Session),
		factory:  factory,
	}
}

// Create starts a session with a fresh controller
func (r *SessionRepository) Create() (*session.Session, error) {
	id := uuid.NewString()
	s := session.New(id, r.factory(id))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s
	return s, nil
}

// Get returns the session with id
func (r *SessionRepository) Get(id string) (*session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, session.ErrNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	return s, nil
}

// Delete closes and removes the session with id
func (r *SessionRepository) Delete(id string) error {
	r.mu.Lock()
	s, exists := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	s.Close()
	return nil
}

// List returns all sessions, oldest first
func (r *SessionRepository) List() ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Expire removes sessions idle for longer than ttl and returns how many went
func (r *SessionRepository) Expire(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	var stale []*session.Session
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

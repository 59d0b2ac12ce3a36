// Package session holds one visualizer controller per host client. The
// controller itself is single-threaded, so every access goes through Do.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/vsinha/planviz/pkg/application/visualizer"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("session not found")

// Session is a controller plus the lock that serialises access to it
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	controller *visualizer.Controller
	lastUsed   time.Time
}

// New wraps controller in a session
func New(id string, controller *visualizer.Controller) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		controller: controller,
		lastUsed:   now,
	}
}

// Do runs fn with exclusive access to the controller
func (s *Session) Do(fn func(c *visualizer.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.controller)
}

// LastUsed is when Do last ran
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close destroys the controller's chart
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.Destroy()
}

// ControllerFactory builds the controller of a new session
type ControllerFactory func(id string) *visualizer.Controller

// Repository stores live sessions
type Repository interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string) error
	List() ([]*Session, error)
}

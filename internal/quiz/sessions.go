package quiz

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// Session is one live attempt owned by a logged-in identity.
type Session struct {
	ID     string
	UserID string
	Engine *Engine
}

// Sessions is the in-memory registry of active attempts. Finalized or
// torn-down sessions are removed and their engines closed, so no ticker can
// outlive its entry.
type Sessions struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Session{}}
}

// Create registers a started engine under a fresh session id.
func (s *Sessions) Create(userID string, e *Engine) *Session {
	sess := &Session{ID: uuid.New().String(), UserID: userID, Engine: e}
	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session only to its owner.
func (s *Sessions) Get(id, userID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()
	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove drops the session and closes its engine. Idempotent.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	sess, ok := s.m[id]
	delete(s.m, id)
	s.mu.Unlock()
	if ok {
		sess.Engine.Close()
	}
}

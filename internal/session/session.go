// Package session holds the identity of the document the operator is
// currently working against.
package session

import "sync"

// Session holds the single active document identifier. The zero value is
// an empty session. A Session is created once at startup and shared by
// reference with every operation that needs it.
type Session struct {
	mu         sync.RWMutex
	documentID string
}

// New creates an empty Session.
func New() *Session {
	return &Session{}
}

// Get returns the active document identifier, or "" when no document is active.
func (s *Session) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documentID
}

// Active reports whether a document identifier is set.
func (s *Session) Active() bool {
	return s.Get() != ""
}

// Set replaces the active document identifier.
func (s *Session) Set(id string) {
	s.mu.Lock()
	s.documentID = id
	s.mu.Unlock()
}

// Clear empties the session.
func (s *Session) Clear() {
	s.Set("")
}

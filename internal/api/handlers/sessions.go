package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the cookie name carrying the dashboard session token.
const SessionCookie = "dashboard_session"

// Sessions tracks logged-in browser sessions for the shared-password gate.
// Tokens are opaque and expire after the TTL; there are no user accounts.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
}

// NewSessions creates a session store whose tokens live for ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Create issues a new session token.
func (s *Sessions) Create() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Valid reports whether token belongs to a live session. Expired tokens are
// dropped on sight.
func (s *Sessions) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke forgets a session token.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

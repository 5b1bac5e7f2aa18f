// Package session tracks the per-connection state machine:
// Unauthenticated -> Authenticated -> InRoom(gameID).
package session

import (
	"sync"
	"time"
)

// Session is the server-side record for one live connection.
type Session struct {
	ID        string
	Host      string
	CreatedAt time.Time

	mu     sync.RWMutex
	userID string
	gameID string
}

// SetUserID binds the session to an authenticated identity.
func (s *Session) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// UserID returns the bound identity, empty while unauthenticated.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// SetGameID records the room the connection joined, empty when outside
// any room.
func (s *Session) SetGameID(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = gameID
}

// GameID returns the joined room, if any.
func (s *Session) GameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID
}

// Authenticated reports whether the session is bound to an identity.
func (s *Session) Authenticated() bool {
	return s.UserID() != ""
}

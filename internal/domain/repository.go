package domain

import "github.com/google/uuid"

// SessionRepository defines the interface for session state storage
type SessionRepository interface {
	// Get retrieves a live session
	Get(id uuid.UUID) (*Session, error)

	// GetOrCreate returns the session for id, starting a fresh one with defaults if needed
	GetOrCreate(id uuid.UUID) *Session

	// Delete drops a session
	Delete(id uuid.UUID)

	// DeleteExpired drops idle sessions and returns how many were removed
	DeleteExpired() int

	// Count returns the number of live sessions
	Count() int
}

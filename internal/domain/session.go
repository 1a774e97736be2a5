package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns the form state of one browser.
// All access goes through Update and Snapshot so concurrent requests never race.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu        sync.Mutex
	input     PositionInput
	updatedAt time.Time
}

// NewSession creates a session holding the default form values
func NewSession(id uuid.UUID) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		input:     DefaultPositionInput(),
		updatedAt: now,
	}
}

// Update mutates the form state in place. If fn fails the state is left as it was.
func (s *Session) Update(fn func(input *PositionInput) error) (PositionInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.input
	if err := fn(&next); err != nil {
		return s.input, err
	}
	s.input = next
	s.updatedAt = time.Now()
	return s.input, nil
}

// Snapshot returns a copy of the current form state
func (s *Session) Snapshot() PositionInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// UpdatedAt returns the time of the last mutation
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

package infra

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"positioncard/internal/domain"
)

// SessionStore keeps form sessions in memory with a sliding idle TTL.
// Expired entries are swept by the Scheduler rather than a background janitor.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, 0),
		ttl:   ttl,
	}
}

// Get retrieves a live session and refreshes its TTL
func (s *SessionStore) Get(id uuid.UUID) (*domain.Session, error) {
	v, ok := s.cache.Get(id.String())
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := v.(*domain.Session)
	s.cache.Set(id.String(), sess, s.ttl)
	return sess, nil
}

// GetOrCreate returns the session for id, creating one with default values if missing or expired
func (s *SessionStore) GetOrCreate(id uuid.UUID) *domain.Session {
	if sess, err := s.Get(id); err == nil {
		return sess
	}

	sess := domain.NewSession(id)
	// a concurrent request may have created it first
	if err := s.cache.Add(id.String(), sess, s.ttl); err != nil {
		if existing, getErr := s.Get(id); getErr == nil {
			return existing
		}
		s.cache.Set(id.String(), sess, s.ttl)
	}
	return sess
}

// Delete drops a session
func (s *SessionStore) Delete(id uuid.UUID) {
	s.cache.Delete(id.String())
}

// DeleteExpired drops idle sessions and returns how many were removed
func (s *SessionStore) DeleteExpired() int {
	before := s.cache.ItemCount()
	s.cache.DeleteExpired()
	removed := before - s.cache.ItemCount()
	if removed < 0 {
		return 0
	}
	return removed
}

// Count returns the number of stored sessions, including expired ones not yet swept
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

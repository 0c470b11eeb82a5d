package tokenstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Suitable for single-node
// deployments and tests; NOT suitable for distributed deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	tokens  map[string]memoryToken
	stopCh  chan struct{}
	stopped bool
}

type memoryToken struct {
	userID    int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory token store with background expiry.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		tokens: make(map[string]memoryToken),
		stopCh: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, record := range s.tokens {
		if now.After(record.expiresAt) {
			delete(s.tokens, token)
		}
	}
}

// Save records a refresh token for a user with a TTL.
func (s *MemoryStore) Save(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = memoryToken{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Lookup resolves the owning user id, or ErrTokenNotFound.
func (s *MemoryStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.tokens[token]
	if !ok || time.Now().After(record.expiresAt) {
		return 0, ErrTokenNotFound
	}
	return record.userID, nil
}

// Revoke removes a refresh token.
func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		close(s.stopCh)
		s.stopped = true
	}
	return nil
}

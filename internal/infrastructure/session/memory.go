// Package session records which access tokens are still live.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"clinic-booking/internal/domain/repository"
)

type memoryStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryStore() repository.SessionStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) repository.SessionStore {
	return &memoryStore{tokens: make(map[string]time.Time), now: now}
}

func (s *memoryStore) Save(_ context.Context, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(userID, tokenID)] = s.now().Add(ttl)
	return nil
}

func (s *memoryStore) Exists(_ context.Context, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(userID, tokenID)
	expiresAt, ok := s.tokens[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.tokens, key)
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Delete(_ context.Context, userID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(userID, tokenID))
	return nil
}

func (s *memoryStore) DeleteAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := userKeyPrefix(userID)
	for key := range s.tokens {
		if strings.HasPrefix(key, prefix) {
			delete(s.tokens, key)
		}
	}
	return nil
}

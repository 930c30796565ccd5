// Package otpstore holds pending verification codes.
package otpstore

import (
	"context"
	"sync"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
)

// Retention is how long an entry outlives its expiry. Until then an expired
// code is still reported as expired and its registration can be resent.
const Retention = 24 * time.Hour

func retained(entry *entity.OTPEntry, now time.Time) bool {
	return !now.After(entry.ExpiresAt.Add(Retention))
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entity.OTPEntry
	now     func() time.Time
}

// NewMemoryStore keeps codes in process memory, so a restart loses every
// pending code.
func NewMemoryStore() repository.OTPStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) repository.OTPStore {
	return &memoryStore{entries: make(map[string]entity.OTPEntry), now: now}
}

func (s *memoryStore) Save(_ context.Context, email string, entry *entity.OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = *entry
	return nil
}

func (s *memoryStore) Get(_ context.Context, email string) (*entity.OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(email)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// lookup must be called with mu held.
func (s *memoryStore) lookup(email string) (entity.OTPEntry, bool) {
	entry, ok := s.entries[email]
	if !ok {
		return entity.OTPEntry{}, false
	}
	if !retained(&entry, s.now()) {
		delete(s.entries, email)
		return entity.OTPEntry{}, false
	}
	return entry, true
}

func (s *memoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

func (s *memoryStore) DeleteIfCode(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(email)
	if !ok || entry.Code != code {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/hankyong/campus-chatbot/internal/model"
)

type memoryEntry struct {
	rec     model.SessionRecord
	expires time.Time
}

// MemoryStore is an in-process session store for single-instance and
// development deployments.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Save overwrites the user's session and restarts its expiry.
func (s *MemoryStore) Save(_ context.Context, userID string, rec model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[Key(userID)] = memoryEntry{rec: rec, expires: now.Add(s.ttl)}
	return nil
}

// Get returns the user's session, or nil when none is stored or it expired.
func (s *MemoryStore) Get(_ context.Context, userID string) (*model.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(userID)
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}

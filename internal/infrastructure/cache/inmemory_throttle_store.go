package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often TryAcquire scans for expired holds.
const sweepInterval = 5 * time.Minute

// InMemoryThrottleStore keeps holds in a process-local map, so each
// instance throttles on its own. Expired holds are swept lazily by
// TryAcquire; there is no background goroutine.
type InMemoryThrottleStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	nextSweep time.Time
	now       func() time.Time
}

func NewInMemoryThrottleStore() *InMemoryThrottleStore {
	return &InMemoryThrottleStore{expiry: make(map[string]time.Time), now: time.Now}
}

// TryAcquire holds key for ttl. It reports false while an earlier hold on
// key is still live.
func (s *InMemoryThrottleStore) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
	}
	if until, held := s.expiry[key]; held && now.Before(until) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}

// sweep drops holds that ended by now. Callers hold mu.
func (s *InMemoryThrottleStore) sweep(now time.Time) {
	for key, until := range s.expiry {
		if !now.Before(until) {
			delete(s.expiry, key)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}

// Close drops every hold.
func (s *InMemoryThrottleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.expiry)
	return nil
}

// Size counts holds, including expired ones not yet swept.
func (s *InMemoryThrottleStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

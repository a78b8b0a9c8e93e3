// Package ratelimit counts requests per key in fixed windows. The counter store is
// pluggable so that several instances can share one count.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore increments the counter for key and reports the count within the current
// window and when that window ends. The first increment of a key opens its window.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type counter struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process. Counts are lost on restart and are not shared
// between instances.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]counter
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryStore starts a janitor that drops expired windows every cleanupEvery.
// A non-positive interval disables it.
func NewMemoryStore(cleanupEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		counters: make(map[string]counter),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go s.cleanupLoop(cleanupEvery)
	}
	return s
}

func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = counter{resetAt: now.Add(window)}
	}
	c.count++
	s.counters[key] = c
	return c.count, c.resetAt, nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, k)
		}
	}
}

func (s *MemoryStore) cleanupLoop(every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

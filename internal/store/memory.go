package store

import (
	"sync"
	"time"

	"github.com/tminusrain/parade-forecast/internal/forecast"
)

// MemoryStore is a concurrency-safe in-memory history of served forecasts.
// It implements forecast.HistoryStore.
type MemoryStore struct {
	mu sync.RWMutex

	// entries ordered oldest to newest
	entries []forecast.Result

	// retention configuration
	maxHistory int           // max number of retained results
	maxAge     time.Duration // optional max age for results
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Record appends a new result and enforces retention.
func (s *MemoryStore) Record(res forecast.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, res)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.entries) > s.maxHistory {
		over := len(s.entries) - s.maxHistory
		s.entries = s.entries[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.entries); i++ {
			if !s.entries[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.entries = s.entries[i:]
		}
	}
}

// Recent returns up to limit results, newest first. A non-positive limit
// returns everything retained.
func (s *MemoryStore) Recent(limit int) []forecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]forecast.Result, n)
	for i := 0; i < n; i++ {
		out[i] = s.entries[len(s.entries)-1-i]
	}
	return out
}

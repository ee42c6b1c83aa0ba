package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sells-group/consensus-cli/internal/model"
)

// MemoryStore is an in-process Store for tests and single-shot CLI runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (s *MemoryStore) WithNow(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	e.TimesUsed++
	e.LastUsed = s.now().UTC()

	copied := *e
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.Key]; exists {
		return model.ErrDuplicateKey
	}

	copied := *e
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = s.now().UTC()
	}
	if copied.LastUsed.IsZero() {
		copied.LastUsed = copied.CreatedAt
	}
	s.entries[e.Key] = &copied
	return nil
}

func (s *MemoryStore) DeleteByVersion(_ context.Context, version string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.Version == version {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) DeleteByCategory(_ context.Context, category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.Category == category {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Stats{Entries: len(s.entries)}
	for _, e := range s.entries {
		st.TotalHits += e.TimesUsed
	}
	return st, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

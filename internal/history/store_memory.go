package history

import (
	"context"
	"sync"

	"github.com/klexam/portal/internal/quiz"
)

// MemoryStore keeps ledgers in process memory. Used in tests and as the
// HISTORY_DRIVER=memory backend for throwaway deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	sets    map[string][]SetEntry
	results map[string][]quiz.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:    map[string][]SetEntry{},
		results: map[string][]quiz.Result{},
	}
}

func (m *MemoryStore) LoadSets(_ context.Context, userID string) ([]SetEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.sets[userID]
	out := make([]SetEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *MemoryStore) SaveSets(_ context.Context, userID string, entries []SetEntry) error {
	cp := make([]SetEntry, len(entries))
	copy(cp, entries)
	m.mu.Lock()
	m.sets[userID] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) LoadResults(_ context.Context, userID string) ([]quiz.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.results[userID]
	out := make([]quiz.Result, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *MemoryStore) SaveResults(_ context.Context, userID string, entries []quiz.Result) error {
	cp := make([]quiz.Result, len(entries))
	copy(cp, entries)
	m.mu.Lock()
	m.results[userID] = cp
	m.mu.Unlock()
	return nil
}

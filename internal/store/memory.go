// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is a lightweight persistence layer used in development/testing, or
// when durability is not required.
//
// Characteristics:
//   - Values live in a flat map keyed by owner|key.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

// memory is a map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	ints  map[string]int  // owner|score_<LANG>
	bools map[string]bool // owner|game_{completed,result}_<LANG>_<date>
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{ints: make(map[string]int), bools: make(map[string]bool)}
}

func ownerKey(owner, key string) string { return owner + "|" + key }

func (m *memory) Score(ctx context.Context, owner string, lang catalog.Language) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ints[ownerKey(owner, scoreKey(lang))], nil
}

func (m *memory) AddScore(ctx context.Context, owner string, lang catalog.Language, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[ownerKey(owner, scoreKey(lang))] += delta
	return nil
}

func (m *memory) Completed(ctx context.Context, owner string, lang catalog.Language, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bools[ownerKey(owner, completedKey(lang, date))], nil
}

func (m *memory) Result(ctx context.Context, owner string, lang catalog.Language, date string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.bools[ownerKey(owner, completedKey(lang, date))] {
		return false, false, nil
	}
	return m.bools[ownerKey(owner, resultKey(lang, date))], true, nil
}

func (m *memory) RecordResult(ctx context.Context, owner string, lang catalog.Language, date string, won bool, delta int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ck := ownerKey(owner, completedKey(lang, date))
	if m.bools[ck] {
		return false, nil
	}
	m.bools[ck] = true
	m.bools[ownerKey(owner, resultKey(lang, date))] = won
	if won {
		m.ints[ownerKey(owner, scoreKey(lang))] += delta
	}
	return true, nil
}

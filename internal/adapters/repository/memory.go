package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/fantasybakes/internal/domain/model"
)

// MemoryStore keeps the season in process memory. It is used by tests and
// as the storage of last resort when no durable backend is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	season *model.Season
}

// NewMemoryStore returns a store seeded with a copy of seed, which may be nil.
func NewMemoryStore(seed *model.Season) *MemoryStore {
	return &MemoryStore{season: seed.Clone()}
}

// Load returns a copy of the stored season.
func (m *MemoryStore) Load(_ context.Context) (s *model.Season, err error) {
	defer func(start time.Time) { observe(BackendMemory, opLoad, start, err) }(time.Now())

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.season == nil {
		return nil, loadErr(BackendMemory, errEmpty)
	}
	return m.season.Clone(), nil
}

// Save stores a copy of s.
func (m *MemoryStore) Save(_ context.Context, s *model.Season) (err error) {
	defer func(start time.Time) { observe(BackendMemory, opSave, start, err) }(time.Now())

	if s == nil {
		return saveErr(BackendMemory, errNilSeason)
	}
	m.mu.Lock()
	m.season = s.Clone()
	m.mu.Unlock()
	return nil
}

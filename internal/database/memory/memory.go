// Package memory is the in-process snapshot store; the development
// profile and the tests run on it.
package memory

import (
	"context"
	"sync"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type Store struct {
	mu    sync.RWMutex
	snaps map[model.TenantID]*model.TenantSnapshot

	FailSave error
}

func NewStore() *Store {
	return &Store{snaps: make(map[model.TenantID]*model.TenantSnapshot)}
}

func (s *Store) LoadAll(_ context.Context) (map[model.TenantID]*model.TenantSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.TenantID]*model.TenantSnapshot, len(s.snaps))
	for id, snap := range s.snaps {
		out[id] = snap
	}
	return out, nil
}

func (s *Store) Save(_ context.Context, id model.TenantID, snap *model.TenantSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	s.snaps[id] = snap
	return nil
}

// Stored returns the last saved snapshot of a tenant, nil if none.
func (s *Store) Stored(id model.TenantID) *model.TenantSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snaps[id]
}

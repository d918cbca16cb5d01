package session

import (
	"context"
	"maps"
	"slices"
	"sync"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
)

// MemoryStore keeps workspaces in process memory. Values are copied on the
// way in and out, so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{workspaces: make(map[string]*Workspace)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, notFound(id)
	}
	return w.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, w *Workspace) error {
	if err := apperrors.ValidateID(w.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[w.ID] = w.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.workspaces)), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

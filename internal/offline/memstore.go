package offline

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store. Durability is session-only: a process
// restart loses pending operations, matching the platform's historical
// behavior. Use PGStore for durability across restarts.
type MemStore struct {
	mu      sync.Mutex
	pending []Item
	dead    []Item
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Append(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, item)
	return nil
}

func (s *MemStore) Head(ctx context.Context) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return Item{}, false, nil
	}
	return s.pending[0], true, nil
}

func (s *MemStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.pending {
		if item.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) RequeueAtHead(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pending {
		if s.pending[i].ID == item.ID {
			// Position is preserved; only the stored copy is refreshed.
			s.pending[i] = item
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) MarkDead(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pending {
		if s.pending[i].ID == item.ID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			s.dead = append(s.dead, item)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) Dead(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.dead...), nil
}

func (s *MemStore) Pending(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.pending...), nil
}

func (s *MemStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending), nil
}

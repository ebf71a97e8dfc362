package state

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/harborview/opsync/internal/model"
)

// ChangeBufferSize bounds the change feed; the oldest notification is
// dropped when observers fall behind.
const ChangeBufferSize = 256

// Entry is one locally visible entity.
type Entry struct {
	ID         string
	Kind       model.EntityKind
	Value      json.RawMessage
	Optimistic bool // true while an unconfirmed optimistic value is showing
	UpdatedAt  time.Time
}

// Change notifies observers that an entity transitioned.
type Change struct {
	EntityID   string
	Kind       model.EntityKind
	Optimistic bool
	Removed    bool
}

// Store is the thread-safe entity cache.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	changes chan Change

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*Entry),
		changes: make(chan Change, ChangeBufferSize),
		now:     time.Now,
	}
}

// Get returns an entity by id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// List returns a copy of all entries, ordered by id.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// PendingCount returns how many entities currently show optimistic values.
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if e.Optimistic {
			n++
		}
	}
	return n
}

// SetConfirmed writes a server-confirmed value, clearing any optimistic flag.
func (s *Store) SetConfirmed(id string, kind model.EntityKind, value json.RawMessage) {
	s.mu.Lock()
	s.entries[id] = &Entry{
		ID:        id,
		Kind:      kind,
		Value:     value,
		UpdatedAt: s.now(),
	}
	s.mu.Unlock()

	s.notify(Change{EntityID: id, Kind: kind})
}

// SetOptimistic writes a locally guessed value, flagged unconfirmed.
func (s *Store) SetOptimistic(id string, kind model.EntityKind, value json.RawMessage) {
	s.mu.Lock()
	s.entries[id] = &Entry{
		ID:         id,
		Kind:       kind,
		Value:      value,
		Optimistic: true,
		UpdatedAt:  s.now(),
	}
	s.mu.Unlock()

	s.notify(Change{EntityID: id, Kind: kind, Optimistic: true})
}

// Remove deletes an entity.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		s.notify(Change{EntityID: id, Kind: e.Kind, Removed: true})
	}
}

// Changes returns the bounded change feed.
func (s *Store) Changes() <-chan Change {
	return s.changes
}

// notify sends a change without blocking; when the feed is full the oldest
// notification is dropped to make room.
func (s *Store) notify(change Change) {
	select {
	case s.changes <- change:
	default:
		select {
		case <-s.changes:
			s.changes <- change
		default:
		}
	}
}

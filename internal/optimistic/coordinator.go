package optimistic

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/harborview/opsync/internal/model"
	"github.com/harborview/opsync/internal/state"
)

// Errors
var (
	ErrNoPending  = errors.New("no pending update for correlation id")
	ErrSuperseded = errors.New("pending update superseded")
)

// Pending is one in-flight optimistic mutation.
type Pending struct {
	EntityID      string
	Kind          model.EntityKind
	Previous      json.RawMessage // nil when the entity did not exist before
	Existed       bool
	Optimistic    json.RawMessage
	CorrelationID string
	CreatedAt     time.Time
}

// Coordinator owns the pending-update map for a channel. At most one pending
// update exists per entity at a time.
type Coordinator struct {
	store  *state.Store
	logger *slog.Logger

	mu       sync.Mutex
	byEntity map[string]*Pending
	byCorr   map[string]*Pending

	now func() time.Time
}

// NewCoordinator creates a coordinator writing through to the given store.
func NewCoordinator(store *state.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:    store,
		logger:   logger,
		byEntity: make(map[string]*Pending),
		byCorr:   make(map[string]*Pending),
		now:      time.Now,
	}
}

// Apply records a pending update and writes the optimistic value into the
// local slice immediately. If the entity is already pending, the new update
// supersedes the old one: it keeps the original stable value as its rollback
// target and the old correlation id is forgotten.
func (c *Coordinator) Apply(entityID string, kind model.EntityKind, value json.RawMessage, correlationID string) Pending {
	prev, existed := c.store.Get(entityID)

	c.mu.Lock()
	p := &Pending{
		EntityID:      entityID,
		Kind:          kind,
		Optimistic:    value,
		CorrelationID: correlationID,
		CreatedAt:     c.now(),
	}

	if old, ok := c.byEntity[entityID]; ok {
		// Supersede: rollback target stays the true baseline, not the
		// first mutation's guess.
		p.Previous = old.Previous
		p.Existed = old.Existed
		delete(c.byCorr, old.CorrelationID)
		c.logger.Debug("optimistic update superseded",
			"entity_id", entityID,
			"old_correlation_id", old.CorrelationID,
			"new_correlation_id", correlationID,
		)
	} else if existed {
		p.Previous = prev.Value
		p.Existed = true
	}

	c.byEntity[entityID] = p
	c.byCorr[correlationID] = p
	c.mu.Unlock()

	c.store.SetOptimistic(entityID, kind, value)
	return *p
}

// Commit resolves a pending update with the server's canonical value, which
// may differ from the optimistic guess. A nil canonical value keeps the
// optimistic one.
func (c *Coordinator) Commit(correlationID string, canonical json.RawMessage) error {
	p, err := c.take(correlationID)
	if err != nil {
		return err
	}

	value := canonical
	if value == nil {
		value = p.Optimistic
	}
	c.store.SetConfirmed(p.EntityID, p.Kind, value)

	c.logger.Debug("optimistic update committed",
		"entity_id", p.EntityID,
		"correlation_id", correlationID,
	)
	return nil
}

// Rollback resolves a pending update by restoring the pre-mutation value
// verbatim. Rolling back a create removes the entity entirely.
func (c *Coordinator) Rollback(correlationID string) error {
	p, err := c.take(correlationID)
	if err != nil {
		return err
	}

	if p.Existed {
		c.store.SetConfirmed(p.EntityID, p.Kind, p.Previous)
	} else {
		c.store.Remove(p.EntityID)
	}

	c.logger.Info("optimistic update rolled back",
		"entity_id", p.EntityID,
		"correlation_id", correlationID,
	)
	return nil
}

// take removes and returns the pending update for a correlation id. It
// distinguishes a superseded resolution (the entity has moved on) from an
// unknown one.
func (c *Coordinator) take(correlationID string) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byCorr[correlationID]
	if !ok {
		return nil, ErrNoPending
	}

	current, ok := c.byEntity[p.EntityID]
	if !ok || current.CorrelationID != correlationID {
		delete(c.byCorr, correlationID)
		return nil, ErrSuperseded
	}

	delete(c.byCorr, correlationID)
	delete(c.byEntity, p.EntityID)
	return p, nil
}

// PendingFor returns the pending update for an entity, if any.
func (c *Coordinator) PendingFor(entityID string) (Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byEntity[entityID]
	if !ok {
		return Pending{}, false
	}
	return *p, true
}

// PendingCount returns the number of in-flight optimistic updates.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byEntity)
}

// OldestPending returns the creation time of the longest-waiting pending
// update, so callers can surface a "still syncing" indicator.
func (c *Coordinator) OldestPending() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var oldest time.Time
	found := false
	for _, p := range c.byEntity {
		if !found || p.CreatedAt.Before(oldest) {
			oldest = p.CreatedAt
			found = true
		}
	}
	return oldest, found
}

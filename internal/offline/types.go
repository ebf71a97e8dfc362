package offline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/opsync/internal/model"
)

// Errors
var (
	ErrNotFound    = errors.New("offline item not found")
	ErrInvalidKind = errors.New("invalid operation kind")

	// ErrUnavailable is returned by a ReplayFunc when the item's delivery
	// target is not connected, so no transmission could be attempted. Drain
	// stops the pass without charging the item a retry.
	ErrUnavailable = errors.New("replay target unavailable")
)

// Item is one queued domain mutation.
type Item struct {
	ID            uuid.UUID           // queue item identity
	EntityID      string              // entity the mutation targets
	Kind          model.OperationKind // create, update, or cancel
	Payload       json.RawMessage     // mutation body
	CorrelationID string              // reused on every replay so the server deduplicates
	EnqueuedAt    time.Time
	RetryCount    int
}

// Store is an ordered, keyed collection of pending mutations. Pending items
// keep their enqueue order; RequeueAtHead persists an updated retry count
// without moving the item from its original position.
type Store interface {
	// Append adds an item at the tail of the pending order.
	Append(ctx context.Context, item Item) error

	// Head returns the earliest pending item, if any.
	Head(ctx context.Context) (Item, bool, error)

	// Remove deletes a pending item after successful replay.
	Remove(ctx context.Context, id uuid.UUID) error

	// RequeueAtHead persists an item's bumped retry count in place.
	RequeueAtHead(ctx context.Context, item Item) error

	// MarkDead moves an item from pending to the dead list.
	MarkDead(ctx context.Context, item Item) error

	// Dead returns abandoned items awaiting manual resolution.
	Dead(ctx context.Context) ([]Item, error)

	// Pending returns all pending items in enqueue order.
	Pending(ctx context.Context) ([]Item, error)

	// Len returns the number of pending items.
	Len(ctx context.Context) (int, error)
}

// Config configures the offline queue.
type Config struct {
	MaxRetries int // replay attempts before an item goes dead
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxRetries: 3}
}

package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/opsync/internal/model"
)

// ReplayFunc attempts to deliver one queued mutation to the server.
type ReplayFunc func(ctx context.Context, item Item) error

// DrainResult summarizes one drain pass.
type DrainResult struct {
	Replayed int  // items successfully delivered
	Died     int  // items moved to the dead list this pass
	Blocked  bool // true if the pass stopped on a retryable head failure
}

// Queue replays queued mutations serially when connectivity returns.
type Queue struct {
	cfg    Config
	store  Store
	logger *slog.Logger

	now func() time.Time
}

// NewQueue creates an offline queue on the given store.
func NewQueue(cfg Config, store Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}

	return &Queue{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue records a mutation that could not reach the server. The correlation
// id of the original envelope is retained so every replay is idempotent on
// the server side.
func (q *Queue) Enqueue(ctx context.Context, entityID string, kind model.OperationKind, payload json.RawMessage, correlationID string) (Item, error) {
	if !model.ValidOperationKind(kind) {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	item := Item{
		ID:            uuid.New(),
		EntityID:      entityID,
		Kind:          kind,
		Payload:       payload,
		CorrelationID: correlationID,
		EnqueuedAt:    q.now(),
	}

	if err := q.store.Append(ctx, item); err != nil {
		return Item{}, fmt.Errorf("enqueue offline op: %w", err)
	}

	q.logger.Info("queued offline operation",
		"entity_id", entityID,
		"kind", kind,
		"correlation_id", correlationID,
	)
	return item, nil
}

// Drain replays pending items strictly in enqueue order. A successful replay
// removes the item. A failed one bumps its retry count: past the ceiling it
// moves to the dead list and the pass continues; otherwise it is requeued at
// its original position and the pass stops so ordering is never broken.
// ErrUnavailable stops the pass without charging the item a retry, since no
// delivery was attempted.
func (q *Queue) Drain(ctx context.Context, replay ReplayFunc) (DrainResult, error) {
	var result DrainResult

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item, ok, err := q.store.Head(ctx)
		if err != nil {
			return result, fmt.Errorf("peek offline head: %w", err)
		}
		if !ok {
			return result, nil
		}

		replayErr := replay(ctx, item)
		if replayErr == nil {
			if err := q.store.Remove(ctx, item.ID); err != nil {
				return result, fmt.Errorf("remove replayed item: %w", err)
			}
			result.Replayed++
			q.logger.Info("replayed offline operation",
				"entity_id", item.EntityID,
				"kind", item.Kind,
				"retry_count", item.RetryCount,
			)
			continue
		}

		if errors.Is(replayErr, ErrUnavailable) {
			result.Blocked = true
			q.logger.Debug("offline drain stopped, target not connected",
				"entity_id", item.EntityID,
				"retry_count", item.RetryCount,
			)
			return result, nil
		}

		item.RetryCount++

		if item.RetryCount >= q.cfg.MaxRetries {
			if err := q.store.MarkDead(ctx, item); err != nil {
				return result, fmt.Errorf("mark item dead: %w", err)
			}
			result.Died++
			q.logger.Warn("offline operation exhausted retries, moved to dead list",
				"entity_id", item.EntityID,
				"kind", item.Kind,
				"retry_count", item.RetryCount,
				"error", replayErr,
			)
			continue
		}

		if err := q.store.RequeueAtHead(ctx, item); err != nil {
			return result, fmt.Errorf("requeue item: %w", err)
		}
		result.Blocked = true
		q.logger.Debug("offline drain stopped on retryable failure",
			"entity_id", item.EntityID,
			"retry_count", item.RetryCount,
			"error", replayErr,
		)
		return result, nil
	}
}

// Dead returns abandoned items awaiting manual resolution.
func (q *Queue) Dead(ctx context.Context) ([]Item, error) {
	return q.store.Dead(ctx)
}

// Pending returns all queued items in enqueue order.
func (q *Queue) Pending(ctx context.Context) ([]Item, error) {
	return q.store.Pending(ctx)
}

// Len returns the number of queued items.
func (q *Queue) Len(ctx context.Context) (int, error) {
	return q.store.Len(ctx)
}

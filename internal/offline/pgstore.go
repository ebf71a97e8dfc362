package offline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborview/opsync/internal/model"
)

// PGStore is a Postgres-backed Store. Pending order is the insertion order of
// the seq column; RequeueAtHead updates retry_count in place so the item
// keeps its position.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a Postgres store on an existing pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the offline_ops table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS offline_ops (
			seq            BIGSERIAL PRIMARY KEY,
			id             UUID NOT NULL UNIQUE,
			entity_id      TEXT NOT NULL,
			kind           TEXT NOT NULL,
			payload        JSONB,
			correlation_id TEXT NOT NULL,
			enqueued_at    TIMESTAMPTZ NOT NULL,
			retry_count    INT NOT NULL DEFAULT 0,
			dead           BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	if err != nil {
		return fmt.Errorf("create offline_ops table: %w", err)
	}
	return nil
}

func (s *PGStore) Append(ctx context.Context, item Item) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO offline_ops (id, entity_id, kind, payload, correlation_id, enqueued_at, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.EntityID, string(item.Kind), item.Payload,
		item.CorrelationID, item.EnqueuedAt, item.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("append offline item: %w", err)
	}
	return nil
}

func (s *PGStore) Head(ctx context.Context) (Item, bool, error) {
	return s.scanOne(ctx, `
		SELECT id, entity_id, kind, payload, correlation_id, enqueued_at, retry_count
		FROM offline_ops WHERE NOT dead ORDER BY seq LIMIT 1`)
}

func (s *PGStore) Remove(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM offline_ops WHERE id = $1 AND NOT dead`, id)
	if err != nil {
		return fmt.Errorf("remove offline item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) RequeueAtHead(ctx context.Context, item Item) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE offline_ops SET retry_count = $2 WHERE id = $1 AND NOT dead`,
		item.ID, item.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("requeue offline item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) MarkDead(ctx context.Context, item Item) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE offline_ops SET dead = TRUE, retry_count = $2 WHERE id = $1 AND NOT dead`,
		item.ID, item.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("mark offline item dead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Dead(ctx context.Context) ([]Item, error) {
	return s.scanAll(ctx, `
		SELECT id, entity_id, kind, payload, correlation_id, enqueued_at, retry_count
		FROM offline_ops WHERE dead ORDER BY seq`)
}

func (s *PGStore) Pending(ctx context.Context) ([]Item, error) {
	return s.scanAll(ctx, `
		SELECT id, entity_id, kind, payload, correlation_id, enqueued_at, retry_count
		FROM offline_ops WHERE NOT dead ORDER BY seq`)
}

func (s *PGStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM offline_ops WHERE NOT dead`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count offline items: %w", err)
	}
	return n, nil
}

func (s *PGStore) scanOne(ctx context.Context, sql string, args ...any) (Item, bool, error) {
	var item Item
	var kind string
	err := s.db.QueryRow(ctx, sql, args...).Scan(
		&item.ID, &item.EntityID, &kind, &item.Payload,
		&item.CorrelationID, &item.EnqueuedAt, &item.RetryCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, fmt.Errorf("query offline item: %w", err)
	}
	item.Kind = model.OperationKind(kind)
	return item, true, nil
}

func (s *PGStore) scanAll(ctx context.Context, sql string) ([]Item, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query offline items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var kind string
		if err := rows.Scan(
			&item.ID, &item.EntityID, &kind, &item.Payload,
			&item.CorrelationID, &item.EnqueuedAt, &item.RetryCount,
		); err != nil {
			return nil, fmt.Errorf("scan offline item: %w", err)
		}
		item.Kind = model.OperationKind(kind)
		items = append(items, item)
	}
	return items, rows.Err()
}

package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harborview/opsync/internal/api"
	"github.com/harborview/opsync/internal/model"
	"github.com/harborview/opsync/internal/state"
)

// Config holds snapshot loader configuration.
type Config struct {
	ReconcileInterval time.Duration
	LoadTimeout       time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: 5 * time.Minute,
		LoadTimeout:       2 * time.Minute,
	}
}

// Loader seeds the entity store from a REST snapshot and keeps it
// reconciled in the background.
type Loader struct {
	cfg    Config
	rest   *api.Client
	store  *state.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoader creates a snapshot loader.
func NewLoader(cfg Config, rest *api.Client, store *state.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		cfg:    cfg,
		rest:   rest,
		store:  store,
		logger: logger,
	}
}

// EntityID builds the store key for a snapshot entity.
func EntityID(kind model.EntityKind, key string) string {
	return string(kind) + "/" + key
}

// Start performs the initial snapshot load (blocking), then begins
// background reconciliation.
func (l *Loader) Start(ctx context.Context) error {
	l.ctx, l.cancel = context.WithCancel(ctx)

	loadCtx, cancel := context.WithTimeout(l.ctx, l.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	seeded, err := l.snapshot(loadCtx)
	if err != nil {
		l.cancel()
		return fmt.Errorf("initial snapshot: %w", err)
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.reconcileLoop(l.ctx)
	}()

	l.logger.Info("snapshot loader started",
		"entities", seeded,
		"duration", time.Since(start),
	)

	return nil
}

// Stop gracefully shuts down.
func (l *Loader) Stop(ctx context.Context) error {
	if l.cancel != nil {
		l.cancel()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("snapshot loader stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// snapshot fetches all collections and writes them into the store. It
// returns the number of entries that actually changed.
func (l *Loader) snapshot(ctx context.Context) (int, error) {
	rooms, err := l.rest.GetAllRooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch rooms: %w", err)
	}

	reservations, err := l.rest.GetAllReservations(ctx, api.GetReservationsOptions{})
	if err != nil {
		return 0, fmt.Errorf("fetch reservations: %w", err)
	}

	requests, err := l.rest.GetAllServiceRequests(ctx, api.GetServiceRequestsOptions{})
	if err != nil {
		return 0, fmt.Errorf("fetch service requests: %w", err)
	}

	n := 0
	for _, room := range rooms {
		if l.apply(EntityID(model.KindRoom, room.Number), model.KindRoom, room) {
			n++
		}
	}
	for _, res := range reservations {
		if l.apply(EntityID(model.KindReservation, res.ID.String()), model.KindReservation, res) {
			n++
		}
	}
	for _, req := range requests {
		if l.apply(EntityID(model.KindServiceRequest, req.ID.String()), model.KindServiceRequest, req) {
			n++
		}
	}

	return n, nil
}

// apply writes a confirmed value unless the entity is mid-optimistic-update
// or the value is unchanged.
func (l *Loader) apply(id string, kind model.EntityKind, v any) bool {
	value, err := json.Marshal(v)
	if err != nil {
		l.logger.Error("marshal snapshot entity", "id", id, "err", err)
		return false
	}

	if existing, ok := l.store.Get(id); ok {
		if existing.Optimistic {
			return false
		}
		if bytes.Equal(existing.Value, value) {
			return false
		}
	}

	l.store.SetConfirmed(id, kind, value)
	return true
}

// reconcileLoop periodically re-fetches the snapshot to catch events missed
// while disconnected.
func (l *Loader) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			changed, err := l.snapshot(ctx)
			if err != nil {
				l.logger.Error("reconciliation failed", "err", err)
				continue
			}

			if changed > 0 {
				l.logger.Info("reconciliation found changes",
					"changed", changed,
					"duration", time.Since(start),
				)
			} else {
				l.logger.Debug("reconciliation complete", "duration", time.Since(start))
			}
		}
	}
}

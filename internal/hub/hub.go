package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harborview/opsync/internal/channel"
	"github.com/harborview/opsync/internal/model"
	"github.com/harborview/opsync/internal/offline"
	"github.com/harborview/opsync/internal/optimistic"
	"github.com/harborview/opsync/internal/pubsub"
	"github.com/harborview/opsync/internal/stats"
	"github.com/harborview/opsync/internal/state"
	"github.com/harborview/opsync/internal/transport"
	"github.com/harborview/opsync/internal/wire"
)

// Errors
var (
	ErrRejected  = errors.New("mutation rejected by server")
	ErrHubClosed = errors.New("hub closed")
)

// replayTimeout bounds one offline drain pass after a reconnect.
const replayTimeout = 30 * time.Second

// Config configures a hub.
type Config struct {
	Channel channel.Config // template; Name is set per channel
	Offline offline.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Channel: channel.DefaultConfig(),
		Offline: offline.DefaultConfig(),
	}
}

// mutationPayload is the payload of an op.* envelope. The channel name rides
// along so offline items can be replayed on the right channel after a
// restart.
type mutationPayload struct {
	Channel  string           `json:"channel"`
	EntityID string           `json:"entityId"`
	Kind     model.EntityKind `json:"entityKind"`
	Value    json.RawMessage  `json:"value,omitempty"`
}

func opEventID(op model.OperationKind) string {
	return "op." + string(op)
}

// Hub ties channels, local state, optimistic updates, and the offline queue
// together.
type Hub struct {
	cfg     Config
	factory transport.Factory
	logger  *slog.Logger

	store   *state.Store
	coord   *optimistic.Coordinator
	offline *offline.Queue

	mu       sync.Mutex
	channels map[string]*channel.Channel
	closed   bool

	ackMu      sync.Mutex
	ackWaiters map[string]chan wire.AckPayload
}

// New creates a hub. The offline store decides durability: a memory store is
// session-only, a Postgres store survives restarts.
func New(cfg Config, factory transport.Factory, store offline.Store, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	entityStore := state.NewStore()

	return &Hub{
		cfg:        cfg,
		factory:    factory,
		logger:     logger,
		store:      entityStore,
		coord:      optimistic.NewCoordinator(entityStore, logger),
		offline:    offline.NewQueue(cfg.Offline, store, logger),
		channels:   make(map[string]*channel.Channel),
		ackWaiters: make(map[string]chan wire.AckPayload),
	}
}

// Store returns the local entity slice.
func (h *Hub) Store() *state.Store {
	return h.store
}

// Offline returns the durable offline queue.
func (h *Hub) Offline() *offline.Queue {
	return h.offline
}

// PendingFor reports the in-flight optimistic update for an entity, if any.
func (h *Hub) PendingFor(entityID string) (optimistic.Pending, bool) {
	return h.coord.PendingFor(entityID)
}

// PendingCount returns the number of in-flight optimistic updates.
func (h *Hub) PendingCount() int {
	return h.coord.PendingCount()
}

// Channel returns the named channel, creating it on first use.
func (h *Hub) Channel(name string) *channel.Channel {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.channels[name]; ok {
		return ch
	}

	cfg := h.cfg.Channel
	cfg.Name = name

	var ch *channel.Channel
	hooks := channel.Hooks{
		OnConnected: func() { h.replayOffline(name) },
		OnDisconnected: func(err error) {
			h.logger.Info("channel offline, mutations will queue",
				"channel", name,
				"error", err,
			)
		},
	}
	ch = channel.New(cfg, h.factory, hooks, h.logger)
	ch.Subscribe(wire.EventAck, h.handleAck)

	h.channels[name] = ch
	return ch
}

// Connect dials the named channel.
func (h *Hub) Connect(ctx context.Context, name string) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.mu.Unlock()

	return h.Channel(name).Connect(ctx)
}

// Disconnect closes the named channel's connection without tearing it down.
func (h *Hub) Disconnect(name string) {
	h.mu.Lock()
	ch, ok := h.channels[name]
	h.mu.Unlock()

	if ok {
		ch.Disconnect()
	}
}

// ChannelState returns the lifecycle state of the named channel.
func (h *Hub) ChannelState(name string) channel.State {
	h.mu.Lock()
	ch, ok := h.channels[name]
	h.mu.Unlock()

	if !ok {
		return channel.StateDisconnected
	}
	return ch.State()
}

// Stats returns counters for the named channel.
func (h *Hub) Stats(name string) stats.Snapshot {
	h.mu.Lock()
	ch, ok := h.channels[name]
	h.mu.Unlock()

	if !ok {
		return stats.Snapshot{}
	}
	return ch.Stats()
}

// Subscribe registers a handler for an event id on the named channel.
func (h *Hub) Subscribe(name, eventID string, fn pubsub.Handler) func() {
	return h.Channel(name).Subscribe(eventID, fn)
}

// Send publishes an event on the named channel and waits for the server's
// acknowledgment. It fails fast when the outbound queue rejects the message
// and honors ctx while waiting.
func (h *Hub) Send(ctx context.Context, name, eventID string, payload any) error {
	env, err := wire.New(name, eventID, payload)
	if err != nil {
		return err
	}

	ackCh := h.registerAckWaiter(env.ID)
	defer h.dropAckWaiter(env.ID)

	m, err := h.Channel(name).Send(env)
	if err != nil {
		return err
	}

	select {
	case err := <-m.Done():
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case ack := <-ackCh:
		if ack.Status == wire.AckRejected {
			return fmt.Errorf("%w: %s", ErrRejected, ack.Reason)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyOptimistic applies a mutation locally right away and sends it on the
// named channel. While the channel is offline the mutation goes to the
// durable offline queue and the local value stays pending until replay
// resolves it. A send failure on a live connection rolls the mutation back
// immediately.
func (h *Hub) ApplyOptimistic(ctx context.Context, name, entityID string, kind model.EntityKind, op model.OperationKind, value json.RawMessage) (optimistic.Pending, error) {
	env, err := wire.New(name, opEventID(op), mutationPayload{
		Channel:  name,
		EntityID: entityID,
		Kind:     kind,
		Value:    value,
	})
	if err != nil {
		return optimistic.Pending{}, err
	}

	pending := h.coord.Apply(entityID, kind, value, env.ID)

	sendErr := h.Channel(name).SendNow(env)
	if sendErr == nil {
		return pending, nil
	}

	if errors.Is(sendErr, transport.ErrNotConnected) {
		// Offline, or the connection dropped under the write: the
		// mutation survives in the durable queue and stays pending.
		if _, err := h.offline.Enqueue(ctx, entityID, op, env.Payload, env.ID); err != nil {
			h.coord.Rollback(env.ID)
			return optimistic.Pending{}, err
		}
		return pending, nil
	}

	// A live connection refused the write: roll back immediately.
	h.coord.Rollback(env.ID)
	return optimistic.Pending{}, sendErr
}

// Close tears down every channel and rejects remaining work.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	channels := make([]*channel.Channel, 0, len(h.channels))
	for _, ch := range h.channels {
		channels = append(channels, ch)
	}
	h.mu.Unlock()

	for _, ch := range channels {
		ch.Close()
	}
}

// handleAck resolves optimistic updates and wakes ack waiters. Acks for
// unknown correlation ids are normal: plain sends and superseded mutations
// both produce them.
func (h *Hub) handleAck(env wire.Envelope) {
	ack, err := wire.DecodeAck(env)
	if err != nil {
		h.logger.Warn("dropping malformed ack", "error", err)
		return
	}

	switch ack.Status {
	case wire.AckOK:
		err = h.coord.Commit(env.ID, ack.Value)
	case wire.AckRejected:
		err = h.coord.Rollback(env.ID)
	}
	if err != nil && !errors.Is(err, optimistic.ErrNoPending) && !errors.Is(err, optimistic.ErrSuperseded) {
		h.logger.Warn("ack resolution failed", "correlation_id", env.ID, "error", err)
	}

	h.ackMu.Lock()
	waiter, ok := h.ackWaiters[env.ID]
	if ok {
		delete(h.ackWaiters, env.ID)
	}
	h.ackMu.Unlock()

	if ok {
		select {
		case waiter <- ack:
		default:
		}
	}
}

func (h *Hub) registerAckWaiter(correlationID string) chan wire.AckPayload {
	ch := make(chan wire.AckPayload, 1)
	h.ackMu.Lock()
	h.ackWaiters[correlationID] = ch
	h.ackMu.Unlock()
	return ch
}

func (h *Hub) dropAckWaiter(correlationID string) {
	h.ackMu.Lock()
	delete(h.ackWaiters, correlationID)
	h.ackMu.Unlock()
}

// replayOffline drains the offline queue after a channel comes up. Items are
// replayed strictly in enqueue order; an item whose channel is still offline
// blocks the pass without being charged a retry, preserving order and its
// retry budget for the next reconnect.
func (h *Hub) replayOffline(connectedChannel string) {
	ctx, cancel := context.WithTimeout(context.Background(), replayTimeout)
	defer cancel()

	result, err := h.offline.Drain(ctx, func(ctx context.Context, item offline.Item) error {
		var mp mutationPayload
		if err := json.Unmarshal(item.Payload, &mp); err != nil {
			return fmt.Errorf("decode offline payload: %w", err)
		}

		h.mu.Lock()
		ch, ok := h.channels[mp.Channel]
		h.mu.Unlock()
		if !ok || ch.State() != channel.StateConnected {
			return offline.ErrUnavailable
		}

		env := wire.Envelope{
			EventID:   opEventID(item.Kind),
			Channel:   mp.Channel,
			Payload:   item.Payload,
			ID:        item.CorrelationID,
			Timestamp: time.Now().UTC(),
			Retry:     item.RetryCount,
		}

		if sendErr := ch.SendNow(env); sendErr != nil {
			// The connection dropped under the write: nothing reached the
			// server, so this is unavailability, not a failed attempt.
			if errors.Is(sendErr, transport.ErrNotConnected) {
				return offline.ErrUnavailable
			}
			return sendErr
		}
		return nil
	})
	if err != nil {
		h.logger.Warn("offline replay aborted", "channel", connectedChannel, "error", err)
		return
	}

	// Mutations abandoned by the queue lose their optimistic value too.
	if result.Died > 0 {
		if dead, derr := h.offline.Dead(ctx); derr == nil {
			for _, item := range dead {
				if rbErr := h.coord.Rollback(item.CorrelationID); rbErr == nil {
					h.logger.Warn("mutation abandoned after retries",
						"correlation_id", item.CorrelationID,
						"entity_id", item.EntityID,
					)
				}
			}
		}
	}

	if result.Replayed > 0 || result.Died > 0 {
		h.logger.Info("offline replay finished",
			"channel", connectedChannel,
			"replayed", result.Replayed,
			"dead", result.Died,
			"blocked", result.Blocked,
		)
	}
}

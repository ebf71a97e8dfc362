package pubsub

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/harborview/opsync/internal/wire"
)

// Handler consumes a dispatched inbound envelope.
type Handler func(env wire.Envelope)

// consumer is one registered handler. The removed flag lets an unsubscribe
// that races with an in-flight dispatch take effect immediately.
type consumer struct {
	fn      Handler
	removed atomic.Bool
}

// Registry maps event ids to ordered handler lists.
type Registry struct {
	logger *slog.Logger

	mu     sync.RWMutex
	topics map[string][]*consumer
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		topics: make(map[string][]*consumer),
	}
}

// Subscribe registers a handler for an event id and returns its unsubscribe
// function. Unsubscribing twice is a no-op; unregistering the last handler
// for an event id removes the map entry entirely.
func (r *Registry) Subscribe(eventID string, fn Handler) func() {
	c := &consumer{fn: fn}

	r.mu.Lock()
	r.topics[eventID] = append(r.topics[eventID], c)
	r.mu.Unlock()

	return func() {
		if !c.removed.CompareAndSwap(false, true) {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		list := r.topics[eventID]
		for i, existing := range list {
			if existing == c {
				// Preserve registration order for the remaining handlers.
				list = append(list[:i], list[i+1:]...)
				if len(list) == 0 {
					delete(r.topics, eventID)
				} else {
					r.topics[eventID] = list
				}
				return
			}
		}
	}
}

// Dispatch invokes every handler currently registered for the envelope's
// event id, synchronously and in registration order.
func (r *Registry) Dispatch(env wire.Envelope) {
	r.mu.RLock()
	snapshot := append([]*consumer(nil), r.topics[env.EventID]...)
	r.mu.RUnlock()

	for _, c := range snapshot {
		if c.removed.Load() {
			continue
		}
		r.invoke(c, env)
	}
}

// invoke runs a single handler, isolating panics so the remaining handlers
// still receive the event.
func (r *Registry) invoke(c *consumer, env wire.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("subscriber panicked during dispatch",
				"event_id", env.EventID,
				"panic", rec,
			)
		}
	}()
	c.fn(env)
}

// Count returns the number of handlers registered for an event id.
func (r *Registry) Count(eventID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[eventID])
}

// Topics returns the number of event ids with at least one handler.
func (r *Registry) Topics() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics)
}

// Clear removes every subscription. Used on channel teardown; handlers
// removed this way are never invoked again.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, list := range r.topics {
		for _, c := range list {
			c.removed.Store(true)
		}
	}
	r.topics = make(map[string][]*consumer)
}

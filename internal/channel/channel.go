package channel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harborview/opsync/internal/backoff"
	"github.com/harborview/opsync/internal/pubsub"
	"github.com/harborview/opsync/internal/queue"
	"github.com/harborview/opsync/internal/stats"
	"github.com/harborview/opsync/internal/transport"
	"github.com/harborview/opsync/internal/wire"
)

// ErrChannelClosed is returned by operations on a closed channel.
var ErrChannelClosed = errors.New("channel closed")

// State describes the connection lifecycle of a channel.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	// StateError is entered on a transport error before reconnection starts,
	// and is terminal once the reconnect ceiling is reached (a manual
	// Connect is then required).
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Config configures a channel.
type Config struct {
	Name                 string
	Backoff              backoff.Policy
	MaxReconnectAttempts int
	Queue                queue.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backoff:              backoff.Default(),
		MaxReconnectAttempts: 10,
		Queue:                queue.DefaultConfig(),
	}
}

// Hooks notify the owner about connectivity transitions. Both callbacks run
// on channel goroutines and must not call back into Connect or Close.
type Hooks struct {
	OnConnected    func()
	OnDisconnected func(err error)
}

// Channel owns one logical sync stream: its transport connection, outbound
// queue, subscriber registry, and statistics.
type Channel struct {
	cfg     Config
	factory transport.Factory
	hooks   Hooks
	logger  *slog.Logger

	registry *pubsub.Registry
	outbound *queue.Queue
	tracker  *stats.Tracker

	state atomic.Int32

	mu     sync.Mutex
	client transport.Client
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	wg sync.WaitGroup
}

// New creates a channel. The factory is invoked for every dial so a dead
// connection is replaced rather than reused.
func New(cfg Config, factory transport.Factory, hooks Hooks, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = DefaultConfig().MaxReconnectAttempts
	}
	if cfg.Backoff.Base <= 0 {
		cfg.Backoff = backoff.Default()
	}
	logger = logger.With("channel", cfg.Name)

	return &Channel{
		cfg:      cfg,
		factory:  factory,
		hooks:    hooks,
		logger:   logger,
		registry: pubsub.New(logger),
		outbound: queue.New(cfg.Queue, logger),
		tracker:  stats.NewTracker(),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.cfg.Name
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Stats returns a snapshot of the channel's counters.
func (c *Channel) Stats() stats.Snapshot {
	return c.tracker.Snapshot()
}

// QueueLen returns the number of buffered outbound messages.
func (c *Channel) QueueLen() int {
	return c.outbound.Len()
}

// Connect dials the channel. On dial failure the channel keeps retrying in
// the background with exponential backoff up to the configured ceiling; the
// first attempt's error is returned so callers can log it. Calling Connect
// again after the ceiling parked the channel restarts the cycle.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	switch c.State() {
	case StateConnected, StateConnecting, StateReconnecting:
		c.mu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.state.Store(int32(StateConnecting))

	if err := c.dial(); err != nil {
		c.logger.Warn("initial dial failed, scheduling reconnect", "error", err)
		c.state.Store(int32(StateReconnecting))
		c.wg.Add(1)
		go c.retryLoop()
		return err
	}
	return nil
}

// Disconnect closes the connection without scheduling a reconnect. Buffered
// outbound messages are kept for the next Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if client != nil {
		client.Close()
	}
	if c.State() == StateConnected {
		c.tracker.Disconnected()
	}
	c.state.Store(int32(StateDisconnected))
}

// Close tears the channel down: disconnects, rejects all buffered outbound
// messages, and removes every subscriber.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.Disconnect()
	c.wg.Wait()
	c.outbound.Close()
	c.registry.Clear()
}

// Send buffers an envelope for transmission. While connected the queue is
// drained immediately; while offline the envelope waits for the next
// successful dial. The returned message resolves once the envelope was
// handed to the transport or rejected.
func (c *Channel) Send(env wire.Envelope) (*queue.Message, error) {
	m, err := c.outbound.Enqueue(env)
	if err != nil {
		return nil, err
	}
	if c.State() == StateConnected {
		c.outbound.Drain(c.transmit)
	}
	return m, nil
}

// SendNow transmits immediately, bypassing the outbound queue, so the caller
// learns the outcome synchronously. Used by the offline replay path, which
// carries its own durability.
func (c *Channel) SendNow(env wire.Envelope) error {
	if c.State() != StateConnected {
		return transport.ErrNotConnected
	}
	return c.transmit(env)
}

// Subscribe registers a handler for an event id and returns its unsubscribe
// function.
func (c *Channel) Subscribe(eventID string, fn pubsub.Handler) func() {
	return c.registry.Subscribe(eventID, fn)
}

// dial creates a fresh client, connects it, and on success starts the read
// loop and flushes the outbound queue.
func (c *Channel) dial() error {
	client := c.factory(c.logger)

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	c.state.Store(int32(StateConnected))
	c.tracker.Connected()

	c.wg.Add(1)
	go c.readLoop(client)

	if c.hooks.OnConnected != nil {
		c.hooks.OnConnected()
	}

	if n := c.outbound.Drain(c.transmit); n > 0 {
		c.logger.Info("flushed outbound queue", "sent", n)
	}
	return nil
}

// transmit encodes and writes one envelope on the current connection.
func (c *Channel) transmit(env wire.Envelope) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return transport.ErrNotConnected
	}

	data, err := env.Encode()
	if err != nil {
		return err
	}
	if err := client.Send(data); err != nil {
		return err
	}
	c.tracker.MessageSent()
	return nil
}

// readLoop consumes inbound frames and connection errors for one client.
func (c *Channel) readLoop(client transport.Client) {
	defer c.wg.Done()

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-client.Errors():
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("connection lost", "error", err)
			c.tracker.Disconnected()
			// A transport error surfaces as Error first; reconnection then
			// takes over. Errors are not terminal by themselves.
			c.state.Store(int32(StateError))
			client.Close()

			if c.hooks.OnDisconnected != nil {
				c.hooks.OnDisconnected(err)
			}

			c.state.Store(int32(StateReconnecting))
			c.wg.Add(1)
			go c.retryLoop()
			return

		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			c.tracker.MessageReceived()

			env, err := wire.Decode(msg.Data)
			if err != nil {
				c.logger.Warn("dropping malformed frame", "error", err)
				continue
			}
			c.registry.Dispatch(env)
		}
	}
}

// retryLoop redials with exponential backoff. After the ceiling the channel
// is parked in StateError until a manual Connect.
func (c *Channel) retryLoop() {
	defer c.wg.Done()

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	for attempt := 0; attempt < c.cfg.MaxReconnectAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.Backoff.Delay(attempt)):
		}

		c.tracker.ReconnectAttempt()
		c.logger.Info("attempting reconnection", "attempt", attempt+1)

		if err := c.dial(); err != nil {
			c.logger.Warn("reconnection failed", "attempt", attempt+1, "error", err)
			continue
		}

		c.logger.Info("reconnected", "attempt", attempt+1)
		return
	}

	c.state.Store(int32(StateError))
	c.logger.Error("reconnect ceiling reached, channel parked",
		"attempts", c.cfg.MaxReconnectAttempts,
	)
}

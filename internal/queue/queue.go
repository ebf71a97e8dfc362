package queue

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/harborview/opsync/internal/wire"
)

// Errors
var (
	ErrQueueFull      = errors.New("outbound queue full")
	ErrRetryExhausted = errors.New("send retries exhausted")
	ErrClosed         = errors.New("outbound queue closed")
)

// Message wraps an envelope with its completion handle and attempt counter.
type Message struct {
	Envelope wire.Envelope

	attempts int
	done     chan error
	once     sync.Once
}

// Done returns the completion channel: it receives nil once the message was
// handed to the transport, or the rejection error.
func (m *Message) Done() <-chan error {
	return m.done
}

// Attempts returns how many transmissions have been tried.
func (m *Message) Attempts() int {
	return m.attempts
}

func (m *Message) resolve(err error) {
	m.once.Do(func() {
		m.done <- err
	})
}

// Config configures an outbound queue.
type Config struct {
	Capacity    int // maximum buffered messages; sends beyond it are rejected
	MaxAttempts int // per-message transmission ceiling
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:    100,
		MaxAttempts: 3,
	}
}

// Queue is a bounded FIFO buffer of outbound messages.
type Queue struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	items  []*Message
	closed bool

	// Serializes drain passes so FIFO order holds across callers.
	drainMu sync.Mutex
}

// New creates an outbound queue.
func New(cfg Config, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}

	return &Queue{
		cfg:    cfg,
		logger: logger,
	}
}

// Enqueue appends an envelope and returns its completion handle. It fails
// immediately with ErrQueueFull at capacity and ErrClosed after Close.
func (q *Queue) Enqueue(env wire.Envelope) (*Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}
	if len(q.items) >= q.cfg.Capacity {
		q.logger.Warn("outbound queue at capacity, rejecting send",
			"capacity", q.cfg.Capacity,
			"event_id", env.EventID,
		)
		return nil, ErrQueueFull
	}

	m := &Message{
		Envelope: env,
		done:     make(chan error, 1),
	}
	q.items = append(q.items, m)
	return m, nil
}

// Len returns the number of buffered messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain transmits buffered messages strictly in FIFO order via send. On a
// transmission failure the message's attempt counter is incremented; if it
// exceeds the ceiling the message is rejected and removed, otherwise it stays
// at the head and the pass stops so order is preserved. Returns the number of
// messages transmitted.
func (q *Queue) Drain(send func(wire.Envelope) error) int {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	sent := 0
	for {
		q.mu.Lock()
		if q.closed || len(q.items) == 0 {
			q.mu.Unlock()
			return sent
		}
		m := q.items[0]
		q.mu.Unlock()

		m.attempts++
		if m.attempts > 1 {
			m.Envelope.Retry = m.attempts - 1
		}

		err := send(m.Envelope)
		if err == nil {
			q.removeHead(m)
			m.resolve(nil)
			sent++
			continue
		}

		if m.attempts >= q.cfg.MaxAttempts {
			q.logger.Warn("message exhausted retries, rejecting",
				"event_id", m.Envelope.EventID,
				"correlation_id", m.Envelope.ID,
				"attempts", m.attempts,
			)
			q.removeHead(m)
			m.resolve(ErrRetryExhausted)
			continue
		}

		// Leave at head for the next drain pass.
		q.logger.Debug("drain stopped on transmit failure",
			"event_id", m.Envelope.EventID,
			"attempts", m.attempts,
			"error", err,
		)
		return sent
	}
}

// removeHead removes m if it is still the head. Concurrent Close may already
// have cleared the slice.
func (q *Queue) removeHead(m *Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 && q.items[0] == m {
		q.items = q.items[1:]
	}
}

// Close rejects every buffered message with ErrClosed and stops accepting
// new ones.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, m := range items {
		m.resolve(ErrClosed)
	}
}

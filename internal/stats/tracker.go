package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is a point-in-time view of a channel's activity.
type Snapshot struct {
	MessagesSent      int64
	MessagesReceived  int64
	ReconnectAttempts int64
	Uptime            time.Duration
}

// Tracker accumulates channel activity counters.
type Tracker struct {
	sent       atomic.Int64
	received   atomic.Int64
	reconnects atomic.Int64

	mu          sync.Mutex
	connectedAt time.Time // zero while disconnected
	uptime      time.Duration

	now func() time.Time
}

// NewTracker creates a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// MessageSent records one outbound transmission.
func (t *Tracker) MessageSent() { t.sent.Add(1) }

// MessageReceived records one inbound message.
func (t *Tracker) MessageReceived() { t.received.Add(1) }

// ReconnectAttempt records one reconnection attempt.
func (t *Tracker) ReconnectAttempt() { t.reconnects.Add(1) }

// Connected marks the start of a connected interval.
func (t *Tracker) Connected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connectedAt.IsZero() {
		t.connectedAt = t.now()
	}
}

// Disconnected closes the current connected interval, folding it into the
// accumulated uptime.
func (t *Tracker) Disconnected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connectedAt.IsZero() {
		t.uptime += t.now().Sub(t.connectedAt)
		t.connectedAt = time.Time{}
	}
}

// Snapshot returns the current counters. Uptime includes the in-progress
// connected interval, if any.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	uptime := t.uptime
	if !t.connectedAt.IsZero() {
		uptime += t.now().Sub(t.connectedAt)
	}
	t.mu.Unlock()

	return Snapshot{
		MessagesSent:      t.sent.Load(),
		MessagesReceived:  t.received.Load(),
		ReconnectAttempts: t.reconnects.Load(),
		Uptime:            uptime,
	}
}

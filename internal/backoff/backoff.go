// Package backoff provides the capped exponential delay policy used between
// reconnection attempts. It is pure so retry schedules can be unit-tested
// without real timers.
package backoff

import "time"

// Policy defines a capped exponential backoff schedule.
type Policy struct {
	Base time.Duration // delay for attempt 0
	Cap  time.Duration // upper bound for any attempt
}

// Default returns the production reconnect schedule.
func Default() Policy {
	return Policy{
		Base: 1 * time.Second,
		Cap:  60 * time.Second,
	}
}

// Delay returns the wait before retry attempt n (0-indexed):
// min(Base * 2^n, Cap). Negative attempts are treated as 0.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := p.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		// Overflow doubles to a negative duration; clamp either way.
		if d >= p.Cap || d < 0 {
			return p.Cap
		}
	}
	if d > p.Cap {
		return p.Cap
	}
	return d
}

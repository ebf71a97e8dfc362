// Package stats tracks derived, read-only counters for a channel: messages
// sent and received, reconnection attempts, and accumulated connected uptime.
// The tracker has no control-flow responsibilities; components report into it
// and observers read point-in-time snapshots.
package stats

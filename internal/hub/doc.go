// Package hub is the client-facing facade of the sync layer. It owns the
// named channels, the local entity slice, the optimistic-update coordinator,
// and the durable offline queue, and routes acknowledgments and replay
// between them.
package hub

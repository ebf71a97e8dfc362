// Package bootstrap seeds the local entity store from a REST snapshot and
// keeps it reconciled in the background.
//
// The real-time channel is the primary source of updates; the loader covers
// what the channel cannot: the initial state at startup, and events missed
// while disconnected longer than the server's replay window. Entities
// showing an unconfirmed optimistic value are never overwritten by a
// snapshot.
package bootstrap

// Package state holds the locally visible slice of operational entities:
// committed server values plus any currently showing optimistic values, each
// flagged so the UI layer can render a distinct "syncing" affordance.
//
// Single-writer discipline: only the optimistic coordinator and inbound-event
// handlers registered through the subscription registry mutate the store.
// Observers read snapshots or consume the bounded change feed.
package state

// Package offline implements the durable queue of domain mutations attempted
// while disconnected.
//
// Items are replayed strictly in enqueue order when connectivity returns; an
// item is never replayed while an earlier item for the same entity is still
// pending. Failed replays are requeued at their original position, and items
// that exhaust their retry ceiling move to a dead list visible to the caller
// instead of looping forever.
//
// Two Store implementations are provided: an in-memory store (session-only
// durability, the platform's historical behavior) and a Postgres store that
// survives process restarts.
package offline

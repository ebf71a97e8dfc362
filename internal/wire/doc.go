// Package wire defines the envelope format exchanged with the operations
// platform over WebSocket.
//
// Every outbound envelope carries a client-generated correlation id; server
// acknowledgments echo the same id, which is the join key used to resolve
// optimistic updates and offline replays. The server treats repeated
// submission of the same id as idempotent.
package wire

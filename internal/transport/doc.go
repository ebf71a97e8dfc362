// Package transport implements the WebSocket connection to the operations
// platform.
//
// A Client owns exactly one physical connection: it dials, reads inbound
// frames onto a channel, serializes writes, and keeps the connection alive
// with ping/pong heartbeats. Silent failures surface on the Errors channel
// after PingTimeout without any ping or pong from the server. Reconnection
// policy lives one layer up, in the channel package.
package transport

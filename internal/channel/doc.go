// Package channel manages the lifecycle of a single named sync channel:
// dialing, heartbeat-driven liveness, reconnection with exponential backoff,
// outbound buffering while offline, and dispatch of inbound events to
// subscribers.
package channel

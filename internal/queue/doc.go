// Package queue implements the bounded outbound message queue for a channel.
//
// Messages that cannot be transmitted immediately are buffered in FIFO order
// and drained when the connection comes back. Every enqueued message is
// eventually resolved (transmitted) or rejected (capacity, retry ceiling, or
// queue teardown) through its completion handle; nothing is silently dropped.
package queue

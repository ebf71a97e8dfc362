// Package pubsub implements the per-channel subscription registry.
//
// Handlers are registered per event id and invoked synchronously, in
// registration order, for every matching inbound envelope. Dispatch iterates
// a snapshot of the handler list, so subscribing or unsubscribing during a
// dispatch is safe; a handler removed mid-dispatch is not invoked again. A
// panicking handler is isolated and logged, and never prevents delivery to
// the handlers after it.
package pubsub

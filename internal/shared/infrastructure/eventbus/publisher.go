// Package eventbus provides event publishing over RabbitMQ, with a
// synchronous in-process bus for local mode.
package eventbus

import "context"

// Publisher publishes serialized events under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// Handler consumes one delivered event. Returning an error is logged by the
// bus; delivery is at-most-once either way.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// InProcessBus delivers events synchronously to subscribed handlers. It is
// the local-mode replacement for RabbitMQ and implements Publisher.
type InProcessBus struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewInProcessBus creates an empty bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for an exact routing key.
func (b *InProcessBus) Subscribe(routingKey string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], handler)
}

// Publish dispatches the event to every handler of the routing key. Handler
// errors are logged, not returned; local mode never fails a publish.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[routingKey]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, routingKey, payload); err != nil {
			b.logger.Error("event handler failed",
				"routing_key", routingKey,
				"error", err,
			)
		}
	}
	return nil
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}

// Package messaging implements the in-process event bus of the assessment
// engine. Handlers run synchronously on the publisher's goroutine: the
// pipeline owns all concurrency, and a publish returns only after every
// handler has run.
package messaging

import (
	"errors"
	"sync"
	"time"

	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

var (
	// ErrEventBusClosed is returned when operations are attempted on a closed bus.
	ErrEventBusClosed = errors.New("event bus is closed")

	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// InMemoryEventBus is a synchronous in-memory implementation of
// shared.EventBus. Handler errors are logged, never propagated to the
// publisher: a failing listener must not fail a processing run.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
	closed      bool
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	if log == nil {
		log = logger.Default()
	}
	return &InMemoryEventBus{
		handlers:    make(map[shared.EventType][]shared.EventHandler),
		allHandlers: make([]shared.EventHandler, 0),
		log:         log.With(logger.Component("eventbus")),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish sends an event to all subscribed handlers, in subscription order.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		start := time.Now()
		if err := handler(event); err != nil {
			b.log.Error("event handler failed",
				logger.String("event_type", string(event.EventType())),
				logger.Latency(time.Since(start)),
				logger.Err(err),
			)
		}
	}
	return nil
}

// Close marks the bus closed; further publishes and subscriptions fail.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

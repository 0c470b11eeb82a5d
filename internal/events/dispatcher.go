// Package events delivers domain events raised by entities to registered
// handlers. Dispatch is synchronous within the request: services snapshot an
// entity's events, persist the mutation, then publish. A failing handler
// never blocks the others; all failures are aggregated.
package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
)

// Handler processes one domain event.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Dispatcher routes events to handlers by event name.
type Dispatcher struct {
	handlers map[string][]Handler
	logger   zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   logger.With().Str("component", "event_dispatcher").Logger(),
	}
}

// Register subscribes a handler to an event name. Registration order is
// delivery order.
func (d *Dispatcher) Register(eventName string, handler Handler) {
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Publish delivers events in order to their handlers. A handler error is
// recorded and delivery continues; the aggregate of all handler errors is
// returned.
func (d *Dispatcher) Publish(ctx context.Context, events []domain.Event) error {
	var failures []error

	for _, event := range events {
		for _, handler := range d.handlers[event.EventName()] {
			if err := handler.Handle(ctx, event); err != nil {
				d.logger.Error().
					Err(err).
					Str("event", event.EventName()).
					Str("event_id", event.EventID()).
					Msg("event handler failed")
				failures = append(failures, err)
			}
		}
	}

	return errors.Join(failures...)
}

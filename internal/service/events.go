package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
)

// eventCarrier is satisfied by every entity embedding domain.Entity.
type eventCarrier interface {
	Events() []domain.Event
	ClearEvents()
}

// publishEvents snapshots and clears the entity's pending events, then
// dispatches them. The mutation is already persisted at this point, so
// handler failures are logged rather than failing the command.
func publishEvents(ctx context.Context, dispatcher *events.Dispatcher, logger zerolog.Logger, carrier eventCarrier) {
	pending := carrier.Events()
	carrier.ClearEvents()
	if len(pending) == 0 {
		return
	}
	if err := dispatcher.Publish(ctx, pending); err != nil {
		logger.Error().Err(err).Int("events", len(pending)).Msg("event dispatch failed")
	}
}

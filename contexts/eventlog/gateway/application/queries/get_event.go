package queries

import (
	"context"
	"fmt"
	"log/slog"

	application "mnemonicnexus/contexts/eventlog/gateway/application"
	domainerrors "mnemonicnexus/contexts/eventlog/gateway/domain/errors"
	"mnemonicnexus/contexts/eventlog/gateway/ports"
	"mnemonicnexus/internal/shared/events"
)

// GetEventQuery looks up a single event by its tenant-scoped id.
type GetEventQuery struct {
	WorldID string
	EventID string
}

// GetEventUseCase fetches one event by id within a tenant.
type GetEventUseCase struct {
	Store  ports.Store
	Logger *slog.Logger
}

// Execute fetches the event. Any store error is surfaced as ErrNotFound; a
// missing or cross-tenant event id is not told apart from other store
// failures.
func (u GetEventUseCase) Execute(ctx context.Context, q GetEventQuery) (events.Envelope, error) {
	logger := application.ResolveLogger(u.Logger)

	env, err := u.Store.GetEvent(ctx, q.WorldID, q.EventID)
	if err != nil {
		logger.Warn("get event not found",
			"event", "gateway_get_event_not_found",
			"module", "eventlog/gateway",
			"layer", "application",
			"world_id", q.WorldID,
			"event_id", q.EventID,
		)
		return events.Envelope{}, fmt.Errorf("%w: %s", domainerrors.ErrNotFound, err.Error())
	}
	return env, nil
}

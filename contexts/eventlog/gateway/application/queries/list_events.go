// Package queries implements the gateway's read-side operations.
package queries

import (
	"context"
	"log/slog"

	application "mnemonicnexus/contexts/eventlog/gateway/application"
	"mnemonicnexus/contexts/eventlog/gateway/domain/validate"
	"mnemonicnexus/contexts/eventlog/gateway/ports"
)

// ListEventsQuery is the transport-agnostic input to ListEventsUseCase.
type ListEventsQuery struct {
	WorldID        string
	Branch         string
	Kind           string
	AfterGlobalSeq int64
	Limit          int
}

// ListEventsUseCase lists events for a tenant/branch in global_seq order.
type ListEventsUseCase struct {
	Store  ports.Store
	Logger *slog.Logger
}

// Execute validates the branch and delegates to the store.
func (u ListEventsUseCase) Execute(ctx context.Context, q ListEventsQuery) (ports.ListResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := validate.Branch(q.Branch); err != nil {
		return ports.ListResult{}, err
	}
	if q.Kind != "" {
		if err := validate.Kind(q.Kind); err != nil {
			return ports.ListResult{}, err
		}
	}

	result, err := u.Store.ListEvents(ctx, ports.ListFilter{
		WorldID:        q.WorldID,
		Branch:         q.Branch,
		Kind:           q.Kind,
		AfterGlobalSeq: q.AfterGlobalSeq,
		Limit:          q.Limit,
	})
	if err != nil {
		logger.Error("list events failed",
			"event", "gateway_list_events_failed",
			"module", "eventlog/gateway",
			"layer", "application",
			"world_id", q.WorldID,
			"branch", q.Branch,
			"error", err.Error(),
		)
		return ports.ListResult{}, err
	}
	return result, nil
}

// Package commands implements the gateway's per-append algorithm: validate,
// enrich, delegate to the store, and classify the outcome as accepted,
// idempotent replay, or conflict.
package commands

import (
	"context"
	"log/slog"
	"time"

	application "mnemonicnexus/contexts/eventlog/gateway/application"
	"mnemonicnexus/contexts/eventlog/gateway/domain/validate"
	"mnemonicnexus/contexts/eventlog/gateway/ports"
	"mnemonicnexus/internal/shared/events"
)

// AppendEventCommand is the transport-agnostic input to AppendEventUseCase.
type AppendEventCommand struct {
	WorldID        string
	Branch         string
	Kind           string
	Payload        map[string]any
	AgentBy        string
	OccurredAt     string
	CausationID    string
	Version        int
	IdempotencyKey string
	CorrelationID  string
}

// AppendEventResult is what the HTTP adapter turns into a response body.
type AppendEventResult struct {
	Event         events.Envelope
	Replayed      bool
	CorrelationID string
}

// AppendEventUseCase wires validation, enrichment, and the store together.
type AppendEventUseCase struct {
	Store       ports.Store
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates the command, computes the payload hash, resolves the
// correlation id, and appends the event — or returns the prior event for a
// duplicate idempotency key.
func (u AppendEventUseCase) Execute(ctx context.Context, cmd AppendEventCommand) (AppendEventResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("append event started",
		"event", "gateway_append_started",
		"module", "eventlog/gateway",
		"layer", "application",
		"world_id", cmd.WorldID,
		"branch", cmd.Branch,
		"kind", cmd.Kind,
	)

	if err := validate.Envelope(validate.Input{
		WorldID:     cmd.WorldID,
		Branch:      cmd.Branch,
		Kind:        cmd.Kind,
		Payload:     cmd.Payload,
		AgentBy:     cmd.AgentBy,
		OccurredAt:  cmd.OccurredAt,
		CausationID: cmd.CausationID,
		Version:     versionOrDefault(cmd.Version),
	}); err != nil {
		return AppendEventResult{}, err
	}

	correlationID, err := validate.CorrelationID(cmd.CorrelationID)
	if err != nil {
		return AppendEventResult{}, err
	}
	if correlationID == "" {
		correlationID = u.IDGenerator.NewID()
	}

	payloadHash, err := events.ComputePayloadHash(cmd.Payload)
	if err != nil {
		logger.Error("append event hash failed",
			"event", "gateway_append_hash_failed",
			"module", "eventlog/gateway",
			"layer", "application",
			"world_id", cmd.WorldID,
			"branch", cmd.Branch,
			"error", err.Error(),
		)
		return AppendEventResult{}, err
	}

	var occurredAt *time.Time
	if cmd.OccurredAt != "" {
		t, perr := time.Parse(time.RFC3339, cmd.OccurredAt)
		if perr != nil {
			return AppendEventResult{}, perr
		}
		t = t.UTC()
		occurredAt = &t
	}

	envelope := events.Envelope{
		EventID:        u.IDGenerator.NewID(),
		WorldID:        cmd.WorldID,
		Branch:         cmd.Branch,
		Kind:           cmd.Kind,
		Payload:        cmd.Payload,
		By:             events.Actor{Agent: cmd.AgentBy},
		OccurredAt:     occurredAt,
		ReceivedAt:     u.Clock.Now().UTC(),
		CausationID:    cmd.CausationID,
		Version:        versionOrDefault(cmd.Version),
		PayloadHash:    payloadHash,
		IdempotencyKey: cmd.IdempotencyKey,
		CorrelationID:  correlationID,
	}

	result, err := u.Store.AppendEvent(ctx, envelope)
	if err != nil {
		logger.Error("append event write failed",
			"event", "gateway_append_write_failed",
			"module", "eventlog/gateway",
			"layer", "application",
			"world_id", cmd.WorldID,
			"branch", cmd.Branch,
			"error", err.Error(),
		)
		return AppendEventResult{}, err
	}

	if result.Conflict {
		logger.Info("append event replayed",
			"event", "gateway_append_replayed",
			"module", "eventlog/gateway",
			"layer", "application",
			"world_id", cmd.WorldID,
			"branch", cmd.Branch,
			"event_id", result.Event.EventID,
		)
		return AppendEventResult{Event: result.Event, Replayed: true, CorrelationID: correlationID}, nil
	}

	logger.Info("append event completed",
		"event", "gateway_append_completed",
		"module", "eventlog/gateway",
		"layer", "application",
		"world_id", cmd.WorldID,
		"branch", cmd.Branch,
		"event_id", result.Event.EventID,
		"global_seq", result.Event.GlobalSeq,
	)
	return AppendEventResult{Event: result.Event, CorrelationID: correlationID}, nil
}

func versionOrDefault(version int) int {
	if version == 0 {
		return 1
	}
	return version
}

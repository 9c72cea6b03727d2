// Package application implements the admin surface's operations: rebuild
// orchestration, materialized view refresh, tenancy self-test, projector
// status listing, and health aggregation — each grounded in
// original_source/services/gateway/admin.py's router and
// original_source/services/common/tenancy.py's TenancyValidator.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	domainerrors "mnemonicnexus/contexts/admin/opsconsole/domain/errors"
	"mnemonicnexus/contexts/admin/opsconsole/ports"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// KnownLenses is the fixed set of rebuildable projectors the admin surface
// will address, extended from the original's ["rel", "sem", "graph"] to
// include the memory-to-EMO translator, which is also a RebuildableProjector.
var KnownLenses = []string{"relational", "semantic", "graph", "translator"}

func isKnownLens(lens string) bool {
	for _, l := range KnownLenses {
		if l == lens {
			return true
		}
	}
	return false
}

// RebuildCommand is a rebuild-projector request: lens, world_id, branch,
// the starting global_seq, and whether to clear existing lens state first.
type RebuildCommand struct {
	Lens          string
	WorldID       string
	Branch        string
	FromGlobalSeq int64
	ClearExisting bool
}

// RebuildResult is returned synchronously; the rebuild itself runs in the
// background exactly as the original's BackgroundTasks.add_task did.
type RebuildResult struct {
	JobID           string
	EstimatedEvents int
	Status          string
	Projector       string
}

// RebuildService orchestrates a projector rebuild: optionally clear the
// lens's state, then redeliver every event from from_global_seq onward in
// order, under the log store's administrative bypass.
type RebuildService struct {
	Events  ports.EventSource
	Gateway ports.ProjectorGateway
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// Execute validates the request, estimates the event count, and schedules
// the replay to run asynchronously.
func (s RebuildService) Execute(ctx context.Context, cmd RebuildCommand) (RebuildResult, error) {
	if !isKnownLens(cmd.Lens) {
		return RebuildResult{}, fmt.Errorf("%w: %s", domainerrors.ErrUnknownLens, cmd.Lens)
	}

	count, err := s.Events.CountEventsSince(ctx, cmd.WorldID, cmd.Branch, cmd.FromGlobalSeq)
	if err != nil {
		return RebuildResult{}, err
	}

	jobID := s.IDGen.NewID()
	logger := ResolveLogger(s.Logger)
	logger.Info("rebuild job accepted",
		"event", "admin_rebuild_accepted",
		"module", "admin/opsconsole",
		"layer", "application",
		"job_id", jobID,
		"lens", cmd.Lens,
		"world_id", cmd.WorldID,
		"branch", cmd.Branch,
		"from_global_seq", cmd.FromGlobalSeq,
		"estimated_events", count,
	)

	go s.run(context.WithoutCancel(ctx), entities.RebuildJob{
		JobID:         jobID,
		Lens:          cmd.Lens,
		WorldID:       cmd.WorldID,
		Branch:        cmd.Branch,
		FromGlobalSeq: cmd.FromGlobalSeq,
		ClearExisting: cmd.ClearExisting,
	})

	return RebuildResult{
		JobID:           jobID,
		EstimatedEvents: count,
		Status:          "accepted",
		Projector:       cmd.Lens,
	}, nil
}

// run performs the rebuild: clear (if requested), then redeliver every
// event in global_seq order so the projector's watermark and lens state
// reconverge to what continuous delivery would have produced.
func (s RebuildService) run(ctx context.Context, job entities.RebuildJob) {
	logger := ResolveLogger(s.Logger)

	if job.ClearExisting {
		if err := s.Gateway.Clear(ctx, job.Lens, job.WorldID, job.Branch); err != nil {
			logger.Error("rebuild clear failed",
				"event", "admin_rebuild_clear_failed",
				"module", "admin/opsconsole",
				"layer", "application",
				"job_id", job.JobID,
				"lens", job.Lens,
				"error", err.Error(),
			)
			return
		}
	}

	envelopes, err := s.Events.ListEventsSince(ctx, job.WorldID, job.Branch, job.FromGlobalSeq)
	if err != nil {
		logger.Error("rebuild replay read failed",
			"event", "admin_rebuild_read_failed",
			"module", "admin/opsconsole",
			"layer", "application",
			"job_id", job.JobID,
			"error", err.Error(),
		)
		return
	}

	for _, envelope := range envelopes {
		if err := s.Gateway.Deliver(ctx, job.Lens, envelope.GlobalSeq, envelope); err != nil {
			logger.Error("rebuild redelivery failed",
				"event", "admin_rebuild_deliver_failed",
				"module", "admin/opsconsole",
				"layer", "application",
				"job_id", job.JobID,
				"global_seq", envelope.GlobalSeq,
				"error", err.Error(),
			)
			return
		}
	}

	logger.Info("rebuild job completed",
		"event", "admin_rebuild_completed",
		"module", "admin/opsconsole",
		"layer", "application",
		"job_id", job.JobID,
		"lens", job.Lens,
		"events_replayed", len(envelopes),
	)
}

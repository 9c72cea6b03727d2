package application

import (
	"context"
	"log/slog"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	"mnemonicnexus/contexts/admin/opsconsole/ports"
)

// StatusService lists the projector fleet with current watermark and lag
// per stream.
type StatusService struct {
	Lag    ports.ProjectorLagSource
	Logger *slog.Logger
}

// List returns every (projector, world_id, branch) watermark row annotated
// with the shared outbox backlog, since this store delivers one outbox to
// every subscriber rather than tracking per-subscriber lag.
func (s StatusService) List(ctx context.Context) ([]entities.ProjectorStatus, error) {
	rows, err := s.Lag.ListWatermarks(ctx)
	if err != nil {
		return nil, err
	}

	lagEvents, lagSeconds, err := s.Lag.OutboxLag(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].LagEvents = lagEvents
		rows[i].LagSeconds = lagSeconds
	}
	return rows, nil
}

// HealthService aggregates database liveness, extension presence, and
// projector lag into one report.
type HealthService struct {
	DB     ports.DatabaseHealthSource
	Status StatusService
	Clock  ports.Clock
	Logger *slog.Logger
}

// knownExtensions mirrors the original's check for the vector/age
// extensions, kept even though no concrete embedding model or graph query
// engine is wired — their absence is still useful operational signal.
var knownExtensions = []string{"vector", "age"}

func (s HealthService) Check(ctx context.Context) entities.HealthReport {
	logger := ResolveLogger(s.Logger)
	report := entities.HealthReport{Status: "healthy", CheckedAt: s.Clock.Now()}

	version, err := s.DB.Ping(ctx)
	if err != nil {
		logger.Error("admin health db check failed",
			"event", "admin_health_db_failed",
			"module", "admin/opsconsole",
			"layer", "application",
			"error", err.Error(),
		)
		report.Status = "degraded"
		return report
	}
	report.DBVersion = version

	extensions, err := s.DB.Extensions(ctx, knownExtensions)
	if err == nil {
		report.Extensions = extensions
	}

	projectors, err := s.Status.List(ctx)
	if err == nil {
		report.Projectors = projectors
	}
	return report
}

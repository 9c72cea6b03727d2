package postgres

import (
	"context"
	"time"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	"mnemonicnexus/internal/platform/db"
)

type watermarkRow struct {
	Projector        string `gorm:"column:projector"`
	WorldID          string `gorm:"column:world_id"`
	Branch           string `gorm:"column:branch"`
	LastProcessedSeq int64  `gorm:"column:last_processed_seq"`
}

type outboxLagRow struct {
	Count        int64      `gorm:"column:count"`
	MinReceivedAt *time.Time `gorm:"column:min_received_at"`
}

// ProjectorLagSource reads the shared projector_watermark and outbox tables
// directly — the admin surface cannot import the framework or logstore
// packages, but both own tables in the same physical database, which this
// operational surface is allowed to read.
type ProjectorLagSource struct {
	db *db.Postgres
}

func NewProjectorLagSource(pg *db.Postgres) *ProjectorLagSource {
	return &ProjectorLagSource{db: pg}
}

func (s *ProjectorLagSource) ListWatermarks(ctx context.Context) ([]entities.ProjectorStatus, error) {
	var rows []watermarkRow
	err := s.db.DB.WithContext(ctx).
		Table("projector_watermark").
		Select("projector, world_id, branch, last_processed_seq").
		Order("projector, world_id, branch").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entities.ProjectorStatus, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.ProjectorStatus{
			Name:             row.Projector,
			WorldID:          row.WorldID,
			Branch:           row.Branch,
			LastProcessedSeq: row.LastProcessedSeq,
		})
	}
	return out, nil
}

// OutboxLag reports the unpublished backlog size and the staleness of its
// oldest row: lag_events is a row count, lag_seconds is now -
// min(received_at) joined against the event log each outbox row was
// written alongside.
func (s *ProjectorLagSource) OutboxLag(ctx context.Context) (int, float64, error) {
	var row outboxLagRow
	err := s.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS count, MIN(el.received_at) AS min_received_at
		FROM outbox ob
		JOIN event_log el ON el.global_seq = ob.global_seq
		WHERE ob.status = 'unpublished'
	`).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.MinReceivedAt == nil {
		return int(row.Count), 0, nil
	}
	return int(row.Count), time.Since(*row.MinReceivedAt).Seconds(), nil
}

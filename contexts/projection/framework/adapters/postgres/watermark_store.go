// Package postgres implements the projector framework's watermark store on
// top of a shared postgres connection pool.
package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"mnemonicnexus/internal/platform/db"
)

type watermarkModel struct {
	Projector       string `gorm:"column:projector;primaryKey"`
	WorldID         string `gorm:"column:world_id;primaryKey"`
	Branch          string `gorm:"column:branch;primaryKey"`
	LastProcessedSeq int64 `gorm:"column:last_processed_seq"`
}

func (watermarkModel) TableName() string { return "projector_watermark" }

// WatermarkStore persists projector watermarks in postgres.
type WatermarkStore struct {
	db     *db.Postgres
	logger *slog.Logger
}

func NewWatermarkStore(pg *db.Postgres, logger *slog.Logger) *WatermarkStore {
	return &WatermarkStore{db: pg, logger: logger}
}

func (s *WatermarkStore) GetWatermark(ctx context.Context, projector, worldID, branch string) (int64, bool, error) {
	var row watermarkModel
	err := s.db.DB.WithContext(ctx).
		Where("projector = ? AND world_id = ? AND branch = ?", projector, worldID, branch).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return row.LastProcessedSeq, true, nil
}

// UpsertWatermark advances last_processed_seq to max(old, globalSeq),
// per the framework contract.
func (s *WatermarkStore) UpsertWatermark(ctx context.Context, projector, worldID, branch string, globalSeq int64) error {
	return s.db.DB.WithContext(ctx).Exec(`
		INSERT INTO projector_watermark (projector, world_id, branch, last_processed_seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (projector, world_id, branch)
		DO UPDATE SET last_processed_seq = GREATEST(projector_watermark.last_processed_seq, EXCLUDED.last_processed_seq)
	`, projector, worldID, branch, globalSeq).Error
}

func (s *WatermarkStore) ClearWatermark(ctx context.Context, projector, worldID, branch string) error {
	return s.db.DB.WithContext(ctx).
		Where("projector = ? AND world_id = ? AND branch = ?", projector, worldID, branch).
		Delete(&watermarkModel{}).Error
}

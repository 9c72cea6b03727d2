package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mnemonicnexus/contexts/projection/semantic/domain/entities"
	"mnemonicnexus/internal/platform/db"
)

// Repository implements ports.Repository against emo_semantic_current and
// emo_semantic_history in postgres.
type Repository struct {
	db     *db.Postgres
	logger *slog.Logger
}

func NewRepository(pg *db.Postgres, logger *slog.Logger) *Repository {
	return &Repository{db: pg, logger: logger}
}

func (r *Repository) GetCurrent(ctx context.Context, worldID, branch, emoID string) (entities.EMO, bool, error) {
	var row emoCurrentModel
	err := r.db.DB.WithContext(ctx).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.EMO{}, false, nil
		}
		return entities.EMO{}, false, err
	}
	return toEntity(row), true, nil
}

func (r *Repository) InsertIfAbsent(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		model := toModel(emo)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
			return err
		}
		return insertHistoryIfAbsent(tx, historyEntry)
	})
}

func (r *Repository) UpdateIfNewerVersion(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emo.EMOID, emo.WorldID, emo.Branch, emo.EMOVersion).
			Updates(map[string]any{
				"emo_type":        emo.EMOType,
				"emo_version":     emo.EMOVersion,
				"content":         emo.Content,
				"embedding":       floatVector(emo.Embedding),
				"embedding_model": emo.EmbeddingModel,
				"updated_at":      emo.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			model := toModel(emo)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
				return err
			}
		}
		return insertHistoryIfAbsent(tx, historyEntry)
	})
}

func (r *Repository) BumpVersion(ctx context.Context, worldID, branch, emoID string, version int, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emoID, worldID, branch, version).
			Update("emo_version", version).Error; err != nil {
			return err
		}
		return insertHistoryIfAbsent(tx, historyEntry)
	})
}

func (r *Repository) SoftDelete(ctx context.Context, worldID, branch, emoID string, version int, reason string, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
			Updates(map[string]any{
				"deleted":         true,
				"deleted_at":      historyEntry.RecordedAt,
				"deletion_reason": reason,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emoID, worldID, branch, version).
			Update("emo_version", version).Error; err != nil {
			return err
		}
		return insertHistoryIfAbsent(tx, historyEntry)
	})
}

func (r *Repository) SetEmbedding(ctx context.Context, worldID, branch, emoID string, embedding []float32, model string) error {
	return r.db.DB.WithContext(ctx).Model(&emoCurrentModel{}).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Updates(map[string]any{
			"embedding":       floatVector(embedding),
			"embedding_model": model,
		}).Error
}

func (r *Repository) ListActive(ctx context.Context, worldID, branch string) ([]entities.EMO, error) {
	var rows []emoCurrentModel
	if err := r.db.DB.WithContext(ctx).
		Where("world_id = ? AND branch = ? AND NOT deleted", worldID, branch).
		Order("emo_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.EMO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEntity(row))
	}
	return out, nil
}

func (r *Repository) ClearState(ctx context.Context, worldID, branch string) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&emoCurrentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&emoHistoryModel{}).Error
	})
}

func insertHistoryIfAbsent(tx *gorm.DB, entry entities.HistoryEntry) error {
	model := emoHistoryModel{
		EMOID:      entry.EMOID,
		WorldID:    entry.WorldID,
		Branch:     entry.Branch,
		EMOVersion: entry.EMOVersion,
		Operation:  entry.Operation,
		RecordedAt: entry.RecordedAt,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

func toModel(emo entities.EMO) emoCurrentModel {
	return emoCurrentModel{
		EMOID:          emo.EMOID,
		WorldID:        emo.WorldID,
		Branch:         emo.Branch,
		EMOType:        emo.EMOType,
		EMOVersion:     emo.EMOVersion,
		Content:        emo.Content,
		Embedding:      floatVector(emo.Embedding),
		EmbeddingModel: emo.EmbeddingModel,
		Deleted:        emo.Deleted,
		DeletedAt:      emo.DeletedAt,
		DeletionReason: emo.DeletionReason,
		UpdatedAt:      emo.UpdatedAt,
	}
}

func toEntity(row emoCurrentModel) entities.EMO {
	return entities.EMO{
		EMOID:          row.EMOID,
		WorldID:        row.WorldID,
		Branch:         row.Branch,
		EMOType:        row.EMOType,
		EMOVersion:     row.EMOVersion,
		Content:        row.Content,
		Embedding:      []float32(row.Embedding),
		EmbeddingModel: row.EmbeddingModel,
		Deleted:        row.Deleted,
		DeletedAt:      row.DeletedAt,
		DeletionReason: row.DeletionReason,
		UpdatedAt:      row.UpdatedAt,
	}
}

package postgres

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mnemonicnexus/contexts/projection/relational/domain/entities"
	"mnemonicnexus/internal/platform/db"
)

// Repository implements ports.Repository against emo_current/emo_history/
// emo_links in postgres.
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
	links, err := r.loadEdges(ctx, worldID, branch, emoID)
	if err != nil {
		return entities.EMO{}, false, err
	}
	return toEntity(row, links), true, nil
}

func (r *Repository) InsertIfAbsent(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		model := toModel(emo)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
			return err
		}
		if err := insertHistoryIfAbsent(tx, historyEntry); err != nil {
			return err
		}
		return insertEdges(tx, emo)
	})
}

func (r *Repository) UpdateIfNewerVersion(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emo.EMOID, emo.WorldID, emo.Branch, emo.EMOVersion).
			Updates(map[string]any{
				"emo_type":    emo.EMOType,
				"emo_version": emo.EMOVersion,
				"content":     emo.Content,
				"tags":        strings.Join(emo.Tags, ","),
				"mime_type":   emo.MimeType,
				"source_kind": emo.Source.Kind,
				"source_uri":  emo.Source.URI,
				"updated_at":  emo.UpdatedAt,
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

func (r *Repository) BumpVersionWithLinks(ctx context.Context, worldID, branch, emoID string, version int, parents []entities.Parent, links []entities.Link, historyEntry entities.HistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&emoCurrentModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emoID, worldID, branch, version).
			Update("emo_version", version).Error; err != nil {
			return err
		}
		if err := insertEdges(tx, entities.EMO{EMOID: emoID, WorldID: worldID, Branch: branch, Parents: parents, Links: links}); err != nil {
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

func (r *Repository) ReplaceEdges(ctx context.Context, worldID, branch, emoID string, parents []entities.Parent, links []entities.Link) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
			Delete(&emoLinkModel{}).Error; err != nil {
			return err
		}
		return insertEdges(tx, entities.EMO{EMOID: emoID, WorldID: worldID, Branch: branch, Parents: parents, Links: links})
	})
}

func (r *Repository) HistoryEntryExists(ctx context.Context, worldID, branch, emoID string, version int, operation string) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&emoHistoryModel{}).
		Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version = ? AND operation = ?", emoID, worldID, branch, version, operation).
		Count(&count).Error
	return count > 0, err
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
		links, err := r.loadEdges(ctx, worldID, branch, row.EMOID)
		if err != nil {
			return nil, err
		}
		out = append(out, toEntity(row, links))
	}
	return out, nil
}

func (r *Repository) ClearState(ctx context.Context, worldID, branch string) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&emoCurrentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&emoHistoryModel{}).Error; err != nil {
			return err
		}
		return tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&emoLinkModel{}).Error
	})
}

func (r *Repository) loadEdges(ctx context.Context, worldID, branch, emoID string) ([]emoLinkModel, error) {
	var rows []emoLinkModel
	err := r.db.DB.WithContext(ctx).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Find(&rows).Error
	return rows, err
}

func insertHistoryIfAbsent(tx *gorm.DB, entry entities.HistoryEntry) error {
	model := emoHistoryModel{
		EMOID:       entry.EMOID,
		WorldID:     entry.WorldID,
		Branch:      entry.Branch,
		EMOVersion:  entry.EMOVersion,
		Operation:   entry.Operation,
		ContentHash: entry.ContentHash,
		RecordedAt:  entry.RecordedAt,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

func insertEdges(tx *gorm.DB, emo entities.EMO) error {
	create := func(model emoLinkModel) error {
		return tx.Where(map[string]any{
			"emo_id": model.EMOID, "world_id": model.WorldID, "branch": model.Branch,
			"kind": model.Kind, "ref": model.Ref, "rel": model.Rel, "is_link": model.IsLink,
		}).FirstOrCreate(&model).Error
	}
	for _, parent := range emo.Parents {
		model := emoLinkModel{EMOID: emo.EMOID, WorldID: emo.WorldID, Branch: emo.Branch, Kind: "emo", Ref: parent.EMOID, Rel: parent.Rel, IsLink: false}
		if err := create(model); err != nil {
			return err
		}
	}
	for _, link := range emo.Links {
		model := emoLinkModel{EMOID: emo.EMOID, WorldID: emo.WorldID, Branch: emo.Branch, Kind: link.Kind, Ref: link.Ref, IsLink: true}
		if err := create(model); err != nil {
			return err
		}
	}
	return nil
}

func toModel(emo entities.EMO) emoCurrentModel {
	return emoCurrentModel{
		EMOID:          emo.EMOID,
		WorldID:        emo.WorldID,
		Branch:         emo.Branch,
		EMOType:        emo.EMOType,
		EMOVersion:     emo.EMOVersion,
		TenantID:       emo.TenantID,
		Content:        emo.Content,
		Tags:           strings.Join(emo.Tags, ","),
		MimeType:       emo.MimeType,
		SourceKind:     emo.Source.Kind,
		SourceURI:      emo.Source.URI,
		Deleted:        emo.Deleted,
		DeletedAt:      emo.DeletedAt,
		DeletionReason: emo.DeletionReason,
		UpdatedAt:      emo.UpdatedAt,
	}
}

func toEntity(row emoCurrentModel, links []emoLinkModel) entities.EMO {
	var tags []string
	if row.Tags != "" {
		tags = strings.Split(row.Tags, ",")
		sort.Strings(tags)
	}

	var parents []entities.Parent
	var emoLinks []entities.Link
	for _, link := range links {
		if !link.IsLink {
			parents = append(parents, entities.Parent{EMOID: link.Ref, Rel: link.Rel})
		} else {
			emoLinks = append(emoLinks, entities.Link{Kind: link.Kind, Ref: link.Ref})
		}
	}

	return entities.EMO{
		EMOID:          row.EMOID,
		WorldID:        row.WorldID,
		Branch:         row.Branch,
		EMOType:        row.EMOType,
		EMOVersion:     row.EMOVersion,
		TenantID:       row.TenantID,
		Content:        row.Content,
		Tags:           tags,
		MimeType:       row.MimeType,
		Source:         entities.Source{Kind: row.SourceKind, URI: row.SourceURI},
		Parents:        parents,
		Links:          emoLinks,
		Deleted:        row.Deleted,
		DeletedAt:      row.DeletedAt,
		DeletionReason: row.DeletionReason,
		UpdatedAt:      row.UpdatedAt,
	}
}

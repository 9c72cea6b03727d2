package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mnemonicnexus/contexts/projection/graph/domain/entities"
	"mnemonicnexus/internal/platform/db"
)

// Repository implements ports.Repository against graph_node and graph_edge
// in postgres.
type Repository struct {
	db     *db.Postgres
	logger *slog.Logger
}

func NewRepository(pg *db.Postgres, logger *slog.Logger) *Repository {
	return &Repository{db: pg, logger: logger}
}

func (r *Repository) GetNode(ctx context.Context, worldID, branch, emoID string) (entities.Node, bool, error) {
	var row graphNodeModel
	err := r.db.DB.WithContext(ctx).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Node{}, false, nil
		}
		return entities.Node{}, false, err
	}
	return toNode(row), true, nil
}

func (r *Repository) InsertNodeIfAbsent(ctx context.Context, node entities.Node, edges []entities.Edge) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		model := toNodeModel(node)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
			return err
		}
		return insertEdges(tx, edges)
	})
}

func (r *Repository) UpdateNodeIfNewerVersion(ctx context.Context, node entities.Node, edges []entities.Edge) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&graphNodeModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", node.EMOID, node.WorldID, node.Branch, node.EMOVersion).
			Updates(map[string]any{
				"emo_type":    node.EMOType,
				"emo_version": node.EMOVersion,
				"updated_at":  node.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			model := toNodeModel(node)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) BumpNodeVersion(ctx context.Context, worldID, branch, emoID string, version int, edges []entities.Edge) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&graphNodeModel{}).
			Where("emo_id = ? AND world_id = ? AND branch = ? AND emo_version < ?", emoID, worldID, branch, version).
			Update("emo_version", version).Error; err != nil {
			return err
		}
		return insertEdges(tx, edges)
	})
}

// SoftDeleteNode marks the node deleted without touching graph_edge —
// lineage is preserved for deleted nodes.
func (r *Repository) SoftDeleteNode(ctx context.Context, worldID, branch, emoID string, version int) error {
	return r.db.DB.WithContext(ctx).Model(&graphNodeModel{}).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Updates(map[string]any{"deleted": true, "emo_version": gorm.Expr("GREATEST(emo_version, ?)", version)}).Error
}

func (r *Repository) ReplaceEdges(ctx context.Context, worldID, branch, emoID string, edges []entities.Edge) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("from_emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
			Delete(&graphEdgeModel{}).Error; err != nil {
			return err
		}
		return insertEdges(tx, edges)
	})
}

func (r *Repository) ListActiveNodes(ctx context.Context, worldID, branch string) ([]entities.Node, error) {
	var rows []graphNodeModel
	if err := r.db.DB.WithContext(ctx).
		Where("world_id = ? AND branch = ? AND NOT deleted", worldID, branch).
		Order("emo_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Node, 0, len(rows))
	for _, row := range rows {
		out = append(out, toNode(row))
	}
	return out, nil
}

func (r *Repository) ClearState(ctx context.Context, worldID, branch string) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&graphNodeModel{}).Error; err != nil {
			return err
		}
		return tx.Where("world_id = ? AND branch = ?", worldID, branch).Delete(&graphEdgeModel{}).Error
	})
}

func insertEdges(tx *gorm.DB, edges []entities.Edge) error {
	for _, e := range edges {
		model := graphEdgeModel{FromEMOID: e.FromEMOID, WorldID: e.WorldID, Branch: e.Branch, Kind: e.Kind, Rel: e.Rel, ToRef: e.ToRef}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
			return err
		}
	}
	return nil
}

func toNodeModel(node entities.Node) graphNodeModel {
	return graphNodeModel{
		EMOID:      node.EMOID,
		WorldID:    node.WorldID,
		Branch:     node.Branch,
		EMOType:    node.EMOType,
		EMOVersion: node.EMOVersion,
		Deleted:    node.Deleted,
		DeletedAt:  node.DeletedAt,
		UpdatedAt:  node.UpdatedAt,
	}
}

func toNode(row graphNodeModel) entities.Node {
	return entities.Node{
		EMOID:      row.EMOID,
		WorldID:    row.WorldID,
		Branch:     row.Branch,
		EMOType:    row.EMOType,
		EMOVersion: row.EMOVersion,
		Deleted:    row.Deleted,
		DeletedAt:  row.DeletedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

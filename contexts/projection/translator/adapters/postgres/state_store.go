// Package postgres implements the translator's StateStore on top of
// translator_emo_version.
package postgres

import (
	"errors"
	"log/slog"

	"context"

	"gorm.io/gorm"

	"mnemonicnexus/contexts/projection/translator/domain/entities"
	"mnemonicnexus/internal/platform/db"
)

type versionModel struct {
	EMOID      string `gorm:"column:emo_id;primaryKey"`
	WorldID    string `gorm:"column:world_id;primaryKey"`
	Branch     string `gorm:"column:branch;primaryKey"`
	EMOVersion int    `gorm:"column:emo_version"`
	Deleted    bool   `gorm:"column:deleted"`
}

func (versionModel) TableName() string { return "translator_emo_version" }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translator_emo_version (
	emo_id      TEXT NOT NULL,
	world_id    TEXT NOT NULL,
	branch      TEXT NOT NULL,
	emo_version INTEGER NOT NULL,
	deleted     BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (emo_id, world_id, branch)
);
`

// Migrate creates the translator's owned version-cache table.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

// StateStore implements ports.StateStore against translator_emo_version.
type StateStore struct {
	db     *db.Postgres
	logger *slog.Logger
}

func NewStateStore(pg *db.Postgres, logger *slog.Logger) *StateStore {
	return &StateStore{db: pg, logger: logger}
}

func (s *StateStore) Get(ctx context.Context, worldID, branch, emoID string) (entities.VersionState, bool, error) {
	var row versionModel
	err := s.db.DB.WithContext(ctx).
		Where("emo_id = ? AND world_id = ? AND branch = ?", emoID, worldID, branch).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VersionState{}, false, nil
		}
		return entities.VersionState{}, false, err
	}
	return entities.VersionState{
		EMOID: row.EMOID, WorldID: row.WorldID, Branch: row.Branch,
		EMOVersion: row.EMOVersion, Deleted: row.Deleted,
	}, true, nil
}

func (s *StateStore) Put(ctx context.Context, state entities.VersionState) error {
	model := versionModel{
		EMOID: state.EMOID, WorldID: state.WorldID, Branch: state.Branch,
		EMOVersion: state.EMOVersion, Deleted: state.Deleted,
	}
	return s.db.DB.WithContext(ctx).Save(&model).Error
}

func (s *StateStore) ClearState(ctx context.Context, worldID, branch string) error {
	return s.db.DB.WithContext(ctx).
		Where("world_id = ? AND branch = ?", worldID, branch).
		Delete(&versionModel{}).Error
}

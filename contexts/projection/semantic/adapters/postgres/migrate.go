package postgres

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS emo_semantic_current (
	emo_id          TEXT NOT NULL,
	world_id        TEXT NOT NULL,
	branch          TEXT NOT NULL,
	emo_type        TEXT NOT NULL,
	emo_version     INTEGER NOT NULL,
	content         TEXT NOT NULL,
	embedding       TEXT NOT NULL DEFAULT '[]',
	embedding_model TEXT NOT NULL DEFAULT '',
	deleted         BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at      TIMESTAMPTZ,
	deletion_reason TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (emo_id, world_id, branch)
);

CREATE TABLE IF NOT EXISTS emo_semantic_history (
	id          BIGSERIAL PRIMARY KEY,
	emo_id      TEXT NOT NULL,
	world_id    TEXT NOT NULL,
	branch      TEXT NOT NULL,
	emo_version INTEGER NOT NULL,
	operation   TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	UNIQUE (emo_id, world_id, branch, emo_version, operation)
);
`

// Migrate creates the semantic projector's owned tables.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

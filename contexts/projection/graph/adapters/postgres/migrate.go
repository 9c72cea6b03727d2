package postgres

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graph_node (
	emo_id      TEXT NOT NULL,
	world_id    TEXT NOT NULL,
	branch      TEXT NOT NULL,
	emo_type    TEXT NOT NULL,
	emo_version INTEGER NOT NULL,
	deleted     BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at  TIMESTAMPTZ,
	updated_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (emo_id, world_id, branch)
);

CREATE TABLE IF NOT EXISTS graph_edge (
	id          BIGSERIAL PRIMARY KEY,
	from_emo_id TEXT NOT NULL,
	world_id    TEXT NOT NULL,
	branch      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	rel         TEXT NOT NULL DEFAULT '',
	to_ref      TEXT NOT NULL,
	UNIQUE (from_emo_id, world_id, branch, kind, rel, to_ref)
);

CREATE INDEX IF NOT EXISTS idx_graph_edge_from ON graph_edge (from_emo_id, world_id, branch);
`

// Migrate creates the graph projector's owned tables.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

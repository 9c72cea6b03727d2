package postgres

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS emo_current (
	emo_id          TEXT NOT NULL,
	world_id        TEXT NOT NULL,
	branch          TEXT NOT NULL,
	emo_type        TEXT NOT NULL,
	emo_version     INTEGER NOT NULL,
	tenant_id       TEXT NOT NULL,
	content         TEXT NOT NULL,
	tags            TEXT NOT NULL DEFAULT '',
	mime_type       TEXT NOT NULL DEFAULT 'text/markdown',
	source_kind     TEXT NOT NULL DEFAULT '',
	source_uri      TEXT NOT NULL DEFAULT '',
	deleted         BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at      TIMESTAMPTZ,
	deletion_reason TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (emo_id, world_id, branch)
);

CREATE TABLE IF NOT EXISTS emo_history (
	id           BIGSERIAL PRIMARY KEY,
	emo_id       TEXT NOT NULL,
	world_id     TEXT NOT NULL,
	branch       TEXT NOT NULL,
	emo_version  INTEGER NOT NULL,
	operation    TEXT NOT NULL,
	content_hash TEXT NOT NULL DEFAULT '',
	recorded_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (emo_id, world_id, branch, emo_version, operation)
);

CREATE TABLE IF NOT EXISTS emo_links (
	id       BIGSERIAL PRIMARY KEY,
	emo_id   TEXT NOT NULL,
	world_id TEXT NOT NULL,
	branch   TEXT NOT NULL,
	kind     TEXT NOT NULL,
	ref      TEXT NOT NULL,
	rel      TEXT NOT NULL DEFAULT '',
	is_link  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_emo_links_identity ON emo_links (emo_id, world_id, branch);

CREATE OR REPLACE VIEW emo_active AS
	SELECT * FROM emo_current WHERE NOT deleted;

CREATE SCHEMA IF NOT EXISTS lens_rel;

CREATE MATERIALIZED VIEW IF NOT EXISTS lens_rel.mv_emo_enriched AS
	SELECT
		c.emo_id, c.world_id, c.branch, c.emo_type, c.emo_version, c.tenant_id,
		c.content, c.tags, c.mime_type, c.source_kind, c.source_uri, c.updated_at,
		COALESCE(
			json_agg(json_build_object('kind', l.kind, 'ref', l.ref, 'rel', l.rel))
				FILTER (WHERE l.id IS NOT NULL),
			'[]'
		) AS links_json
	FROM emo_current c
	LEFT JOIN emo_links l
		ON l.emo_id = c.emo_id AND l.world_id = c.world_id AND l.branch = c.branch
	WHERE NOT c.deleted
	GROUP BY
		c.emo_id, c.world_id, c.branch, c.emo_type, c.emo_version, c.tenant_id,
		c.content, c.tags, c.mime_type, c.source_kind, c.source_uri, c.updated_at;

CREATE UNIQUE INDEX IF NOT EXISTS ux_mv_emo_enriched ON lens_rel.mv_emo_enriched (emo_id, world_id, branch);
`

// Migrate creates the relational projector's owned tables.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

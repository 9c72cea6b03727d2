package postgres

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projector_watermark (
	projector          TEXT NOT NULL,
	world_id           TEXT NOT NULL,
	branch             TEXT NOT NULL,
	last_processed_seq BIGINT NOT NULL,
	PRIMARY KEY (projector, world_id, branch)
);
`

// Migrate creates the projector_watermark table shared by every lens.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

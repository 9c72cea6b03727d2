package postgresadapter

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

const schemaSQL = `
CREATE SEQUENCE IF NOT EXISTS global_seq_seq;

CREATE TABLE IF NOT EXISTS event_log (
	global_seq      BIGINT PRIMARY KEY,
	event_id        TEXT NOT NULL UNIQUE,
	world_id        TEXT NOT NULL,
	branch          TEXT NOT NULL,
	kind            TEXT NOT NULL,
	envelope        JSONB NOT NULL,
	occurred_at     TIMESTAMPTZ,
	received_at     TIMESTAMPTZ NOT NULL,
	payload_hash    TEXT NOT NULL,
	idempotency_key TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_eventlog_world_branch ON event_log (world_id, branch, global_seq);
CREATE UNIQUE INDEX IF NOT EXISTS ux_eventlog_idem ON event_log (world_id, branch, idempotency_key) WHERE idempotency_key <> '';

CREATE TABLE IF NOT EXISTS outbox (
	global_seq    BIGINT PRIMARY KEY REFERENCES event_log(global_seq),
	world_id      TEXT NOT NULL,
	branch        TEXT NOT NULL,
	kind          TEXT NOT NULL,
	envelope      JSONB NOT NULL,
	payload_hash  TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'unpublished',
	published_at  TIMESTAMPTZ,
	attempts      INT NOT NULL DEFAULT 0,
	last_error    TEXT NOT NULL DEFAULT '',
	next_retry_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_claim ON outbox (status, next_retry_at, global_seq);

CREATE TABLE IF NOT EXISTS event_dlq (
	global_seq   BIGINT PRIMARY KEY,
	envelope     JSONB NOT NULL,
	error        TEXT NOT NULL,
	publisher_id TEXT NOT NULL,
	moved_at     TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the event log, outbox and DLQ tables plus the shared
// global_seq sequence if they do not already exist. Row-level security
// policies that gate tenant reads are applied by the deployment's database
// bootstrap scripts, not here.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	return pg.DB.WithContext(ctx).Exec(schemaSQL).Error
}

// Package logstore is C1: the durable, append-only event log and its
// co-written transactional outbox. It has no HTTP surface of its own — the
// gateway, the CDC publisher and the admin surface all depend on ports.Store.
package logstore

import (
	"log/slog"

	memoryadapter "mnemonicnexus/contexts/eventlog/logstore/adapters/memory"
	postgresadapter "mnemonicnexus/contexts/eventlog/logstore/adapters/postgres"
	"mnemonicnexus/contexts/eventlog/logstore/ports"
	"mnemonicnexus/internal/platform/db"
)

// NewPostgresStore builds the production-grade store backed by postgres.
func NewPostgresStore(pg *db.Postgres, logger *slog.Logger) ports.Store {
	return postgresadapter.NewStore(pg, logger)
}

// NewAdminBypassStore exposes the same postgres adapter as the
// administrative bypass surface used by rebuilds.
func NewAdminBypassStore(pg *db.Postgres, logger *slog.Logger) ports.AdminBypassStore {
	return postgresadapter.NewStore(pg, logger)
}

// NewInMemoryStore builds a deterministic fake for tests and local
// development wiring.
func NewInMemoryStore() *memoryadapter.Store {
	return memoryadapter.NewStore()
}

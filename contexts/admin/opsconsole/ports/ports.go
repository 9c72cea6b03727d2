// Package ports defines the admin surface's own narrow view of the log
// store, the projector fleet, and the database it audits — each one
// satisfied structurally by an adapter in this same service, never by
// importing another context's package.
package ports

import (
	"context"
	"time"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	"mnemonicnexus/internal/shared/events"
)

// EventSource is the admin bypass's read path into the event log: counting
// and replaying events for one tenant stream, independent of the session
// world context a normal reader would be bound by.
type EventSource interface {
	CountEventsSince(ctx context.Context, worldID, branch string, fromGlobalSeq int64) (int, error)
	ListEventsSince(ctx context.Context, worldID, branch string, fromGlobalSeq int64) ([]events.Envelope, error)
}

// ProjectorGateway is the admin surface's view of a projector's operational
// HTTP surface: clearing lens state ahead of a rebuild, and redelivering an
// event during one.
type ProjectorGateway interface {
	Clear(ctx context.Context, lens, worldID, branch string) error
	Deliver(ctx context.Context, lens string, globalSeq int64, envelope events.Envelope) error
}

// ViewRefresher executes a materialized view refresh, scoped to an
// admin-validated allowlist of view names.
type ViewRefresher interface {
	Refresh(ctx context.Context, viewName, worldID, branch string) (sizePretty string, err error)
}

// TenancyProbe writes and reads a disposable marker row under an explicit
// session world context, the mechanism TenancyValidator.test_isolation used
// to prove cross-tenant reads return nothing.
type TenancyProbe interface {
	WriteProbe(ctx context.Context, worldID, probeID string) error
	ReadProbe(ctx context.Context, sessionWorldID, probeID string) (found bool, err error)
	DeleteProbe(ctx context.Context, worldID, probeID string) error
}

// ProjectorLagSource reports every projector's current watermark and the
// shared outbox backlog it is behind by.
type ProjectorLagSource interface {
	ListWatermarks(ctx context.Context) ([]entities.ProjectorStatus, error)
	OutboxLag(ctx context.Context) (lagEvents int, lagSeconds float64, err error)
}

// DatabaseHealthSource reports the backing store's liveness and installed
// extensions, for the admin health aggregate.
type DatabaseHealthSource interface {
	Ping(ctx context.Context) (version string, err error)
	Extensions(ctx context.Context, names []string) (map[string]bool, error)
}

// IDGenerator mints the opaque ids the admin surface hands out for async
// jobs and tenancy probe rows.
type IDGenerator interface {
	NewID() string
}

// Clock abstracts wall-clock time so health/refresh timestamps are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

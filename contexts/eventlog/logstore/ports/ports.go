// Package ports defines the contract the gateway, the CDC publisher and the
// admin surface use to reach the event log + outbox store (C1), independent
// of whether the backing adapter is postgres or an in-memory fake.
package ports

import (
	"context"
	"time"

	"mnemonicnexus/internal/shared/events"
	"mnemonicnexus/internal/shared/outbox"
)

// AppendResult is the outcome of AppendEvent: on conflict, Event is the
// first stored event for the idempotency tuple and no new row was written.
type AppendResult struct {
	Event    events.Envelope
	Conflict bool
}

// ListFilter narrows ListEvents by tenant/branch/kind with a seq cursor.
type ListFilter struct {
	WorldID        string
	Branch         string
	Kind           string
	AfterGlobalSeq int64
	Limit          int
}

// ListResult carries the page plus the cursor for the next page.
type ListResult struct {
	Items              []events.Envelope
	NextAfterGlobalSeq int64
	HasMore            bool
}

// Store is the privileged append/read surface C1 exposes.
type Store interface {
	// AppendEvent assigns global_seq, writes the event log row and the
	// outbox row in one transaction, or detects an idempotency conflict.
	AppendEvent(ctx context.Context, envelope events.Envelope) (AppendResult, error)
	ListEvents(ctx context.Context, filter ListFilter) (ListResult, error)
	GetEvent(ctx context.Context, worldID, eventID string) (events.Envelope, error)

	// ClaimOutboxBatch claims up to limit unpublished, due-for-delivery rows
	// ordered by global_seq ascending, using a row-level lock so two
	// concurrent publishers cannot claim the same row.
	ClaimOutboxBatch(ctx context.Context, limit int) ([]outbox.Row, error)
	MarkPublished(ctx context.Context, globalSeq int64, publishedAt time.Time) error
	MarkRetry(ctx context.Context, globalSeq int64, lastError string, nextRetryAt time.Time) error
	MoveToDLQ(ctx context.Context, globalSeq int64, lastError, publisherID string) error

	// OutboxLag reports backlog size and staleness for health/admin reporting.
	OutboxLag(ctx context.Context) (lagEvents int, lagSeconds float64, err error)

	// ListDLQ returns up to limit dead-lettered rows for operational
	// inspection.
	ListDLQ(ctx context.Context, limit int) ([]outbox.DLQRow, error)
}

// AdminBypassStore is the administrative read surface used only by
// the admin rebuild flow, gated by role rather than by omission of a world
// context.
type AdminBypassStore interface {
	// ListEventsSinceAcrossTenants reads the raw log from fromSeq onward for
	// a single (world_id, branch) under the admin bypass, used to re-deliver
	// events to a projector being rebuilt.
	ListEventsSinceAcrossTenants(ctx context.Context, worldID, branch string, fromSeq int64) ([]events.Envelope, error)
}

// Package ports defines the gateway's own narrow view of its collaborators.
// It deliberately does not import contexts/eventlog/logstore/ports: each
// service in this tree owns its dependency interfaces and is wired to a
// concrete adapter only from the bootstrap layer, so that no service ever
// imports another service's package directly.
package ports

import (
	"context"
	"time"

	"mnemonicnexus/internal/shared/events"
)

// AppendResult mirrors the outcome the log store reports for an append.
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

// ListResult carries a page of events plus the cursor for the next page.
type ListResult struct {
	Items              []events.Envelope
	NextAfterGlobalSeq int64
	HasMore            bool
}

// Store is the subset of the event log the gateway needs: append and read.
// It never claims the outbox or touches the DLQ — that belongs to the
// publisher and the admin surface.
type Store interface {
	AppendEvent(ctx context.Context, envelope events.Envelope) (AppendResult, error)
	ListEvents(ctx context.Context, filter ListFilter) (ListResult, error)
	GetEvent(ctx context.Context, worldID, eventID string) (events.Envelope, error)
}

// Clock abstracts wall-clock time so commands are deterministic under test.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event id / correlation id generation.
type IDGenerator interface {
	NewID() string
}

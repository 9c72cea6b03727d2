// Package ports defines the translator's own narrow view of its
// collaborators: an event-log appender (mirroring the gateway's Store, but
// declared locally so this service never imports another service's
// package) and its own small version-cache store.
package ports

import (
	"context"
	"time"

	"mnemonicnexus/contexts/projection/translator/domain/entities"
	"mnemonicnexus/internal/shared/events"
)

// EventAppender is the subset of the event log the translator needs: it
// only ever appends the emo.*/memory.embedding_available events it derives.
type EventAppender interface {
	AppendEvent(ctx context.Context, envelope events.Envelope) error
}

// StateStore tracks the last EMO version the translator produced for each
// memory identity, so it can decide emo.created vs. emo.updated without
// re-reading the relational lens.
type StateStore interface {
	Get(ctx context.Context, worldID, branch, emoID string) (entities.VersionState, bool, error)
	Put(ctx context.Context, state entities.VersionState) error
	ClearState(ctx context.Context, worldID, branch string) error
}

// IDGenerator abstracts event id generation for derived emo.* events.
type IDGenerator interface {
	NewID() string
}

// Clock abstracts wall-clock time so translation is deterministic under
// test.
type Clock interface {
	Now() time.Time
}

// EMOIDDeriver maps a memory identity to its deterministic EMO identity.
// Concrete adapters use UUIDv5 over a fixed namespace so the same memory id
// always derives the same emo id.
type EMOIDDeriver interface {
	Derive(memoryID string) string
}

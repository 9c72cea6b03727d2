// Package ports defines the relational projector's storage contract.
package ports

import (
	"context"

	"mnemonicnexus/contexts/projection/relational/domain/entities"
)

// Repository owns emo_current, emo_history, and emo_links. The postgres
// adapter runs each write method in its own transaction; the framework's
// receiver does not wrap Apply in one, so an event that makes two calls
// (emo.updated) is not applied atomically. Every write must be safe to
// repeat (natural idempotency per spec's apply-idempotency contract).
type Repository interface {
	// GetCurrent returns the current row for an identity, if any.
	GetCurrent(ctx context.Context, worldID, branch, emoID string) (entities.EMO, bool, error)

	// InsertIfAbsent creates the current row and its v=1 history entry; a
	// second call for the same identity is a no-op.
	InsertIfAbsent(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error

	// UpdateIfNewerVersion applies emo as the new current state only when
	// emo.EMOVersion is greater than the stored version, and always appends
	// a history row if absent for that version.
	UpdateIfNewerVersion(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error

	// BumpVersionWithLinks advances emo_version without touching content,
	// merging the supplied parents/links into the existing set.
	BumpVersionWithLinks(ctx context.Context, worldID, branch, emoID string, version int, parents []entities.Parent, links []entities.Link, historyEntry entities.HistoryEntry) error

	// SoftDelete marks the identity deleted, preserving existing edges.
	SoftDelete(ctx context.Context, worldID, branch, emoID string, version int, reason string, historyEntry entities.HistoryEntry) error

	// ReplaceEdges replaces the parent/link set recorded for an identity.
	ReplaceEdges(ctx context.Context, worldID, branch, emoID string, parents []entities.Parent, links []entities.Link) error

	// HistoryEntryExists checks natural idempotency for a given version/op.
	HistoryEntryExists(ctx context.Context, worldID, branch, emoID string, version int, operation string) (bool, error)

	// ListActive returns every non-deleted EMO for a (world_id, branch),
	// ordered by emo_id, for deterministic snapshotting.
	ListActive(ctx context.Context, worldID, branch string) ([]entities.EMO, error)

	// ClearState deletes every row owned by this projector for a tenant
	// branch, used by the administrative rebuild flow.
	ClearState(ctx context.Context, worldID, branch string) error
}

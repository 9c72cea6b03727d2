// Package ports defines the semantic projector's storage and embedding
// contracts.
package ports

import (
	"context"

	"mnemonicnexus/contexts/projection/semantic/domain/entities"
)

// Repository owns the semantic lens's current-state and history tables,
// mirroring the relational lens's identity/version/deletion semantics.
// Every method must be safe to repeat (natural idempotency).
type Repository interface {
	GetCurrent(ctx context.Context, worldID, branch, emoID string) (entities.EMO, bool, error)

	InsertIfAbsent(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error

	UpdateIfNewerVersion(ctx context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error

	BumpVersion(ctx context.Context, worldID, branch, emoID string, version int, historyEntry entities.HistoryEntry) error

	SoftDelete(ctx context.Context, worldID, branch, emoID string, version int, reason string, historyEntry entities.HistoryEntry) error

	// SetEmbedding records an out-of-band embedding for an identity without
	// bumping emo_version, used by the memory.embedding_available marker.
	SetEmbedding(ctx context.Context, worldID, branch, emoID string, embedding []float32, model string) error

	ListActive(ctx context.Context, worldID, branch string) ([]entities.EMO, error)

	ClearState(ctx context.Context, worldID, branch string) error
}

// EmbeddingClient is the external collaborator that turns EMO content into a
// vector. No concrete model is wired; production code supplies an adapter.
type EmbeddingClient interface {
	Embed(ctx context.Context, content string) (vector []float32, model string, err error)
}

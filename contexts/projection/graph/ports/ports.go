// Package ports defines the graph projector's storage contract.
package ports

import (
	"context"

	"mnemonicnexus/contexts/projection/graph/domain/entities"
)

// Repository owns graph_node and graph_edge. Every method must be safe to
// repeat (natural idempotency).
type Repository interface {
	GetNode(ctx context.Context, worldID, branch, emoID string) (entities.Node, bool, error)

	InsertNodeIfAbsent(ctx context.Context, node entities.Node, edges []entities.Edge) error

	UpdateNodeIfNewerVersion(ctx context.Context, node entities.Node, edges []entities.Edge) error

	BumpNodeVersion(ctx context.Context, worldID, branch, emoID string, version int, edges []entities.Edge) error

	// SoftDeleteNode marks a node deleted without touching any edge —
	// edges terminating at a deleted node are never removed.
	SoftDeleteNode(ctx context.Context, worldID, branch, emoID string, version int) error

	ReplaceEdges(ctx context.Context, worldID, branch, emoID string, edges []entities.Edge) error

	ListActiveNodes(ctx context.Context, worldID, branch string) ([]entities.Node, error)

	ClearState(ctx context.Context, worldID, branch string) error
}

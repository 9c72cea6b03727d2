// Package ports defines the contract every projector implements and the
// watermark store the framework uses to make delivery idempotent.
package ports

import (
	"context"

	"mnemonicnexus/internal/shared/events"
)

// Projector is the interface every lens (relational, semantic, graph,
// translator) implements. Apply must be idempotent: the framework may
// redeliver the same (envelope, global_seq) more than once.
type Projector interface {
	Name() string
	Lens() string
	Apply(ctx context.Context, envelope events.Envelope, globalSeq int64) error
	Snapshot(ctx context.Context, worldID, branch string) (any, error)
}

// RebuildableProjector is implemented by projectors that support clearing
// their lens state for a (world_id, branch) ahead of a replay-driven rebuild.
type RebuildableProjector interface {
	Projector
	ClearState(ctx context.Context, worldID, branch string) error
}

// WatermarkStore tracks the last global_seq each projector has durably
// applied per (world_id, branch), used both for skip-gating and for
// resuming a rebuild.
type WatermarkStore interface {
	GetWatermark(ctx context.Context, projector, worldID, branch string) (lastProcessedSeq int64, found bool, err error)
	UpsertWatermark(ctx context.Context, projector, worldID, branch string, globalSeq int64) error
	ClearWatermark(ctx context.Context, projector, worldID, branch string) error
}

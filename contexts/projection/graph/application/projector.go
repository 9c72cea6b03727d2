// Package application implements the graph projector: emo_id nodes plus
// parent/link edges, treating the graph store as a black box with an
// apply_event-shaped interface behind Repository.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mnemonicnexus/contexts/projection/graph/domain/entities"
	domainerrors "mnemonicnexus/contexts/projection/graph/domain/errors"
	"mnemonicnexus/contexts/projection/graph/ports"
	"mnemonicnexus/internal/shared/events"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Projector implements the framework's ports.Projector for the graph lens.
type Projector struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (p Projector) Name() string { return "emo-graph" }
func (p Projector) Lens() string { return "graph" }

func (p Projector) Apply(ctx context.Context, envelope events.Envelope, globalSeq int64) error {
	payload, err := decodePayload(envelope.Payload)
	if err != nil {
		return err
	}

	switch envelope.Kind {
	case "emo.created":
		return p.applyCreated(ctx, envelope, payload)
	case "emo.updated":
		return p.applyUpdated(ctx, envelope, payload)
	case "emo.linked":
		return p.applyLinked(ctx, envelope, payload)
	case "emo.deleted":
		return p.applyDeleted(ctx, envelope, payload)
	default:
		return fmt.Errorf("%w: %s", domainerrors.ErrUnknownEventKind, envelope.Kind)
	}
}

func (p Projector) applyCreated(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	node := entities.Node{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOType:    payload.EMOType,
		EMOVersion: 1,
		UpdatedAt:  p.occurredAt(envelope),
	}
	return p.Repository.InsertNodeIfAbsent(ctx, node, toEdges(envelope, payload))
}

func (p Projector) applyUpdated(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	node := entities.Node{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOType:    payload.EMOType,
		EMOVersion: payload.EMOVersion,
		UpdatedAt:  p.occurredAt(envelope),
	}
	if err := p.Repository.UpdateNodeIfNewerVersion(ctx, node, toEdges(envelope, payload)); err != nil {
		return err
	}
	return p.Repository.ReplaceEdges(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, toEdges(envelope, payload))
}

func (p Projector) applyLinked(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	return p.Repository.BumpNodeVersion(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, payload.EMOVersion, toEdges(envelope, payload))
}

// applyDeleted marks the node deleted. Edges terminating at it are left in
// place — the graph lens never severs lineage on soft-delete.
func (p Projector) applyDeleted(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	return p.Repository.SoftDeleteNode(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, payload.EMOVersion)
}

// Snapshot returns every active node for a tenant branch, ordered
// deterministically by emo_id.
func (p Projector) Snapshot(ctx context.Context, worldID, branch string) (any, error) {
	nodes, err := p.Repository.ListActiveNodes(ctx, worldID, branch)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{
			"emo_id":      n.EMOID,
			"emo_version": n.EMOVersion,
		})
	}
	return out, nil
}

// ClearState implements framework.ports.RebuildableProjector.
func (p Projector) ClearState(ctx context.Context, worldID, branch string) error {
	return p.Repository.ClearState(ctx, worldID, branch)
}

func (p Projector) occurredAt(envelope events.Envelope) time.Time {
	if envelope.OccurredAt != nil {
		return *envelope.OccurredAt
	}
	return envelope.ReceivedAt
}

func toEdges(envelope events.Envelope, payload emoPayload) []entities.Edge {
	edges := make([]entities.Edge, 0, len(payload.Parents)+len(payload.Links))
	for _, parent := range payload.Parents {
		edges = append(edges, entities.Edge{
			FromEMOID: payload.EMOID, WorldID: envelope.WorldID, Branch: envelope.Branch,
			Kind: "parent", Rel: parent.Rel, ToRef: parent.EMOID,
		})
	}
	for _, link := range payload.Links {
		edges = append(edges, entities.Edge{
			FromEMOID: payload.EMOID, WorldID: envelope.WorldID, Branch: envelope.Branch,
			Kind: link.Kind, ToRef: link.Ref,
		})
	}
	return edges
}

// Package application implements the semantic (vector) projector: the same
// identity/version/deletion handling as the relational lens, plus embedding
// population through a pluggable EmbeddingClient.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mnemonicnexus/contexts/projection/semantic/domain/entities"
	domainerrors "mnemonicnexus/contexts/projection/semantic/domain/errors"
	"mnemonicnexus/contexts/projection/semantic/ports"
	"mnemonicnexus/internal/shared/events"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Projector implements the framework's ports.Projector for the semantic
// lens.
type Projector struct {
	Repository ports.Repository
	Embeddings ports.EmbeddingClient
	Logger     *slog.Logger
}

func (p Projector) Name() string { return "emo-semantic" }
func (p Projector) Lens() string { return "semantic" }

// Apply dispatches on envelope.Kind. emo.created/emo.updated compute a fresh
// embedding through Embeddings; emo.linked only bumps version; emo.deleted
// soft-deletes; memory.embedding_available is the translator's marker for
// an out-of-band memory.embed.generated event and only refreshes the
// embedding, deliberately not a new emo.* kind since it never bumps
// emo_version.
func (p Projector) Apply(ctx context.Context, envelope events.Envelope, globalSeq int64) error {
	switch envelope.Kind {
	case "emo.created":
		payload, err := decodePayload(envelope.Payload)
		if err != nil {
			return err
		}
		return p.applyCreated(ctx, envelope, payload)
	case "emo.updated":
		payload, err := decodePayload(envelope.Payload)
		if err != nil {
			return err
		}
		return p.applyUpdated(ctx, envelope, payload)
	case "emo.linked":
		payload, err := decodePayload(envelope.Payload)
		if err != nil {
			return err
		}
		return p.applyLinked(ctx, envelope, payload)
	case "emo.deleted":
		payload, err := decodePayload(envelope.Payload)
		if err != nil {
			return err
		}
		return p.applyDeleted(ctx, envelope, payload)
	case "memory.embedding_available":
		payload, err := decodeEmbedPayload(envelope.Payload)
		if err != nil {
			return err
		}
		return p.applyEmbeddingSet(ctx, envelope, payload)
	default:
		return fmt.Errorf("%w: %s", domainerrors.ErrUnknownEventKind, envelope.Kind)
	}
}

func (p Projector) applyCreated(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	embedding, model, err := p.embed(ctx, payload.Content)
	if err != nil {
		return err
	}
	emo := entities.EMO{
		EMOID:          payload.EMOID,
		WorldID:        envelope.WorldID,
		Branch:         envelope.Branch,
		EMOType:        payload.EMOType,
		EMOVersion:     1,
		Content:        payload.Content,
		Embedding:      embedding,
		EmbeddingModel: model,
		UpdatedAt:      now,
	}
	history := entities.HistoryEntry{
		EMOID:      emo.EMOID,
		WorldID:    emo.WorldID,
		Branch:     emo.Branch,
		EMOVersion: 1,
		Operation:  "created",
		RecordedAt: now,
	}
	return p.Repository.InsertIfAbsent(ctx, emo, history)
}

func (p Projector) applyUpdated(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	embedding, model, err := p.embed(ctx, payload.Content)
	if err != nil {
		return err
	}
	emo := entities.EMO{
		EMOID:          payload.EMOID,
		WorldID:        envelope.WorldID,
		Branch:         envelope.Branch,
		EMOType:        payload.EMOType,
		EMOVersion:     payload.EMOVersion,
		Content:        payload.Content,
		Embedding:      embedding,
		EmbeddingModel: model,
		UpdatedAt:      now,
	}
	history := entities.HistoryEntry{
		EMOID:      emo.EMOID,
		WorldID:    emo.WorldID,
		Branch:     emo.Branch,
		EMOVersion: payload.EMOVersion,
		Operation:  "updated",
		RecordedAt: now,
	}
	return p.Repository.UpdateIfNewerVersion(ctx, emo, history)
}

func (p Projector) applyLinked(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	history := entities.HistoryEntry{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOVersion: payload.EMOVersion,
		Operation:  "linked",
		RecordedAt: now,
	}
	return p.Repository.BumpVersion(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, payload.EMOVersion, history)
}

func (p Projector) applyDeleted(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	history := entities.HistoryEntry{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOVersion: payload.EMOVersion,
		Operation:  "deleted",
		RecordedAt: now,
	}
	return p.Repository.SoftDelete(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, payload.EMOVersion, payload.DeletionReason, history)
}

func (p Projector) applyEmbeddingSet(ctx context.Context, envelope events.Envelope, payload embedPayload) error {
	current, ok, err := p.Repository.GetCurrent(ctx, envelope.WorldID, envelope.Branch, payload.EMOID)
	if err != nil {
		return err
	}
	if !ok {
		ResolveLogger(p.Logger).Warn("embedding_set for unknown emo",
			"event", "semantic.embedding_set.unknown_emo", "module", "semantic", "layer", "application",
			"emo_id", payload.EMOID)
		return nil
	}
	embedding, model, err := p.embed(ctx, current.Content)
	if err != nil {
		return err
	}
	if payload.Model != "" {
		model = payload.Model
	}
	return p.Repository.SetEmbedding(ctx, envelope.WorldID, envelope.Branch, payload.EMOID, embedding, model)
}

// Snapshot returns every active EMO for a tenant branch, ordered
// deterministically by emo_id.
func (p Projector) Snapshot(ctx context.Context, worldID, branch string) (any, error) {
	active, err := p.Repository.ListActive(ctx, worldID, branch)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(active))
	for _, emo := range active {
		out = append(out, map[string]any{
			"emo_id":          emo.EMOID,
			"emo_version":     emo.EMOVersion,
			"embedding_model": emo.EmbeddingModel,
			"embedding_dims":  len(emo.Embedding),
		})
	}
	return out, nil
}

// ClearState implements framework.ports.RebuildableProjector.
func (p Projector) ClearState(ctx context.Context, worldID, branch string) error {
	return p.Repository.ClearState(ctx, worldID, branch)
}

func (p Projector) embed(ctx context.Context, content string) ([]float32, string, error) {
	if p.Embeddings == nil {
		return nil, "", nil
	}
	return p.Embeddings.Embed(ctx, content)
}

func (p Projector) occurredAt(envelope events.Envelope) time.Time {
	if envelope.OccurredAt != nil {
		return *envelope.OccurredAt
	}
	return envelope.ReceivedAt
}

// Package application implements the memory-to-EMO dual-write translator: a
// projector that, on memory.* events, derives and appends the corresponding
// emo.* events onto the same event log, grounded in the original Python
// shim's translation rules.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"mnemonicnexus/contexts/projection/translator/domain"
	"mnemonicnexus/contexts/projection/translator/domain/entities"
	domainerrors "mnemonicnexus/contexts/projection/translator/domain/errors"
	"mnemonicnexus/contexts/projection/translator/ports"
	"mnemonicnexus/internal/shared/events"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Translator implements the framework's ports.Projector for memory.* events,
// translating each one into the emo.* event the relational/semantic/graph
// lenses understand.
type Translator struct {
	Events  ports.EventAppender
	State   ports.StateStore
	Deriver ports.EMOIDDeriver
	IDGen   ports.IDGenerator
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (t Translator) Name() string { return "translator-memory-to-emo" }
func (t Translator) Lens() string { return "translator" }

// Apply dispatches on envelope.Kind; non-memory.* events are a no-op, since
// the translator only ever reacts to the legacy memory.* contract.
func (t Translator) Apply(ctx context.Context, envelope events.Envelope, globalSeq int64) error {
	switch envelope.Kind {
	case "memory.item.upserted":
		return t.translateUpserted(ctx, envelope)
	case "memory.item.deleted":
		return t.translateDeleted(ctx, envelope)
	case "memory.embed.generated":
		return t.translateEmbedGenerated(ctx, envelope)
	default:
		ResolveLogger(t.Logger).Debug("skipping non-memory event",
			"event", "translator_skip", "module", "translator", "layer", "application", "kind", envelope.Kind)
		return nil
	}
}

func (t Translator) translateUpserted(ctx context.Context, envelope events.Envelope) error {
	payload, err := decodeUpsertPayload(envelope.Payload)
	if err != nil {
		return err
	}

	emoID := t.Deriver.Derive(payload.ID)
	state, known, err := t.State.Get(ctx, envelope.WorldID, envelope.Branch, emoID)
	if err != nil {
		return err
	}
	isNew := !known || state.EMOVersion == 0
	newVersion := 1
	if !isNew {
		newVersion = state.EMOVersion + 1
	}

	kind := "emo.created"
	if !isNew {
		kind = "emo.updated"
	}

	emoPayload := map[string]any{
		"emo_id":      emoID,
		"emo_type":    domain.InferEMOType(payload.contentOrBody(), payload.Title),
		"emo_version": newVersion,
		"tenant_id":   envelope.WorldID,
		"content":     payload.contentOrBody(),
		"tags":        payload.Tags,
		"mime_type":   payload.mimeTypeOrDefault(),
		"source":      t.extractSource(envelope, payload),
		"parents":     t.inferParents(payload),
		"links":       t.extractLinks(payload),
	}

	if err := t.emit(ctx, envelope, kind, emoID, newVersion, emoPayload); err != nil {
		return err
	}

	return t.State.Put(ctx, entities.VersionState{
		EMOID: emoID, WorldID: envelope.WorldID, Branch: envelope.Branch, EMOVersion: newVersion,
	})
}

func (t Translator) translateDeleted(ctx context.Context, envelope events.Envelope) error {
	payload, err := decodeDeletePayload(envelope.Payload)
	if err != nil {
		return err
	}

	emoID := t.Deriver.Derive(payload.ID)
	state, known, err := t.State.Get(ctx, envelope.WorldID, envelope.Branch, emoID)
	if err != nil {
		return err
	}
	if !known || state.EMOVersion == 0 {
		return fmt.Errorf("%w: %s", domainerrors.ErrDeleteUnknownEMO, emoID)
	}

	emoPayload := map[string]any{
		"emo_id":          emoID,
		"emo_version":     state.EMOVersion,
		"tenant_id":       envelope.WorldID,
		"deletion_reason": "memory.item.deleted",
	}
	if err := t.emit(ctx, envelope, "emo.deleted", emoID, state.EMOVersion, emoPayload); err != nil {
		return err
	}

	state.Deleted = true
	return t.State.Put(ctx, state)
}

// translateEmbedGenerated turns memory.embed.generated into a
// memory.embedding_available marker for the semantic lens — not a new
// emo.* event kind, since it never bumps emo_version.
func (t Translator) translateEmbedGenerated(ctx context.Context, envelope events.Envelope) error {
	var payload struct {
		MemoryID string `json:"memory_id"`
		ModelID  string `json:"model_id"`
	}
	if err := roundTrip(envelope.Payload, &payload); err != nil {
		return err
	}
	if payload.MemoryID == "" {
		return nil
	}

	emoID := t.Deriver.Derive(payload.MemoryID)
	markerPayload := map[string]any{"emo_id": emoID, "model": payload.ModelID}
	return t.emit(ctx, envelope, "memory.embedding_available", emoID, 0, markerPayload)
}

func (t Translator) emit(ctx context.Context, source events.Envelope, kind, emoID string, version int, payload map[string]any) error {
	payloadHash, err := events.ComputePayloadHash(payload)
	if err != nil {
		return err
	}

	emoEnvelope := events.Envelope{
		EventID:        t.IDGen.NewID(),
		WorldID:        source.WorldID,
		Branch:         source.Branch,
		Kind:           kind,
		Payload:        payload,
		By:             source.By,
		OccurredAt:     source.OccurredAt,
		ReceivedAt:     t.Clock.Now().UTC(),
		CausationID:    source.EventID,
		Version:        1,
		PayloadHash:    payloadHash,
		IdempotencyKey: fmt.Sprintf("%s:%d:%s", emoID, version, operationFor(kind)),
	}

	if err := t.Events.AppendEvent(ctx, emoEnvelope); err != nil {
		return err
	}

	ResolveLogger(t.Logger).Info("translated memory event",
		"event", "translator_emitted", "module", "translator", "layer", "application",
		"source_kind", source.Kind, "emitted_kind", kind, "emo_id", emoID, "emo_version", version)
	return nil
}

func operationFor(kind string) string {
	switch kind {
	case "emo.created":
		return "created"
	case "emo.updated":
		return "updated"
	case "emo.deleted":
		return "deleted"
	default:
		return "marked"
	}
}

func (t Translator) extractSource(envelope events.Envelope, payload memoryUpsertPayload) map[string]string {
	source := map[string]string{"kind": domain.InferSourceKind(envelope.By.Agent)}
	if uri := payload.sourceURI(); uri != "" {
		source["uri"] = uri
	}
	return source
}

func (t Translator) inferParents(payload memoryUpsertPayload) []map[string]string {
	var parents []map[string]string
	if payload.ParentID != "" {
		parents = append(parents, map[string]string{"emo_id": t.Deriver.Derive(payload.ParentID), "rel": "derived"})
	}
	if payload.Supersedes != "" {
		parents = append(parents, map[string]string{"emo_id": t.Deriver.Derive(payload.Supersedes), "rel": "supersedes"})
	}
	for _, mergeID := range payload.MergedFrom {
		parents = append(parents, map[string]string{"emo_id": t.Deriver.Derive(mergeID), "rel": "merges"})
	}
	return parents
}

func (t Translator) extractLinks(payload memoryUpsertPayload) []map[string]string {
	links := extractLinkRefs(payload.Links)
	for _, ref := range payload.References {
		links = append(links, map[string]string{"kind": "emo", "ref": t.Deriver.Derive(ref)})
	}
	return links
}

// Snapshot returns a fixed descriptor of the lens and tenant branch. The
// cached version state is not included, so the value does not change as
// events are applied.
func (t Translator) Snapshot(ctx context.Context, worldID, branch string) (any, error) {
	return map[string]any{"lens": "translator", "world_id": worldID, "branch": branch}, nil
}

// ClearState implements framework.ports.RebuildableProjector.
func (t Translator) ClearState(ctx context.Context, worldID, branch string) error {
	return t.State.ClearState(ctx, worldID, branch)
}

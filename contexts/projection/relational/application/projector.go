// Package application implements the EMO relational projector: the event
// handler table from spec section 4.5 applied against emo_current,
// emo_history, and emo_links.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "mnemonicnexus/contexts/projection/relational/domain"
	"mnemonicnexus/contexts/projection/relational/domain/entities"
	domainerrors "mnemonicnexus/contexts/projection/relational/domain/errors"
	"mnemonicnexus/contexts/projection/relational/ports"
	"mnemonicnexus/internal/shared/events"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Projector implements the framework's ports.Projector for the EMO lens.
type Projector struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (p Projector) Name() string { return "emo-relational" }
func (p Projector) Lens() string { return "relational" }

// Apply dispatches on envelope.Kind to the EMO event handler table.
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
	now := p.occurredAt(envelope)
	emo := entities.EMO{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOType:    payload.EMOType,
		EMOVersion: 1,
		TenantID:   firstNonEmpty(payload.TenantID, envelope.WorldID),
		Content:    payload.Content,
		Tags:       payload.Tags,
		MimeType:   payload.MimeType,
		Source:     entities.Source{Kind: payload.Source.Kind, URI: payload.Source.URI},
		Parents:    toParents(payload.Parents),
		Links:      toLinks(payload.Links),
		UpdatedAt:  now,
	}
	history := entities.HistoryEntry{
		EMOID:       emo.EMOID,
		WorldID:     emo.WorldID,
		Branch:      emo.Branch,
		EMOVersion:  1,
		Operation:   "created",
		ContentHash: domain.ContentHash(emo.Content),
		RecordedAt:  now,
	}
	return p.Repository.InsertIfAbsent(ctx, emo, history)
}

func (p Projector) applyUpdated(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	emo := entities.EMO{
		EMOID:      payload.EMOID,
		WorldID:    envelope.WorldID,
		Branch:     envelope.Branch,
		EMOType:    payload.EMOType,
		EMOVersion: payload.EMOVersion,
		TenantID:   firstNonEmpty(payload.TenantID, envelope.WorldID),
		Content:    payload.Content,
		Tags:       payload.Tags,
		MimeType:   payload.MimeType,
		Source:     entities.Source{Kind: payload.Source.Kind, URI: payload.Source.URI},
		Parents:    toParents(payload.Parents),
		Links:      toLinks(payload.Links),
		UpdatedAt:  now,
	}
	history := entities.HistoryEntry{
		EMOID:       emo.EMOID,
		WorldID:     emo.WorldID,
		Branch:      emo.Branch,
		EMOVersion:  payload.EMOVersion,
		Operation:   "updated",
		ContentHash: domain.ContentHash(emo.Content),
		RecordedAt:  now,
	}
	if err := p.Repository.UpdateIfNewerVersion(ctx, emo, history); err != nil {
		return err
	}
	return p.Repository.ReplaceEdges(ctx, emo.WorldID, emo.Branch, emo.EMOID, emo.Parents, emo.Links)
}

func (p Projector) applyLinked(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	history := entities.HistoryEntry{
		EMOID:       payload.EMOID,
		WorldID:     envelope.WorldID,
		Branch:      envelope.Branch,
		EMOVersion:  payload.EMOVersion,
		Operation:   "linked",
		ContentHash: "",
		RecordedAt:  now,
	}
	return p.Repository.BumpVersionWithLinks(ctx, envelope.WorldID, envelope.Branch, payload.EMOID,
		payload.EMOVersion, toParents(payload.Parents), toLinks(payload.Links), history)
}

func (p Projector) applyDeleted(ctx context.Context, envelope events.Envelope, payload emoPayload) error {
	now := p.occurredAt(envelope)
	history := entities.HistoryEntry{
		EMOID:       payload.EMOID,
		WorldID:     envelope.WorldID,
		Branch:      envelope.Branch,
		EMOVersion:  payload.EMOVersion,
		Operation:   "deleted",
		ContentHash: "",
		RecordedAt:  now,
	}
	return p.Repository.SoftDelete(ctx, envelope.WorldID, envelope.Branch, payload.EMOID,
		payload.EMOVersion, payload.DeletionReason, history)
}

// Snapshot returns every active EMO for a tenant branch, ordered
// deterministically by emo_id, the value the framework canonicalizes and
// hashes for replay validation.
func (p Projector) Snapshot(ctx context.Context, worldID, branch string) (any, error) {
	active, err := p.Repository.ListActive(ctx, worldID, branch)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(active))
	for _, emo := range active {
		out = append(out, map[string]any{
			"emo_id":      emo.EMOID,
			"emo_version": emo.EMOVersion,
			"content":     emo.Content,
			"tags":        emo.Tags,
			"determinism": domain.DeterminismHash(emo),
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toParents(in []parentPayload) []entities.Parent {
	out := make([]entities.Parent, 0, len(in))
	for _, p := range in {
		out = append(out, entities.Parent{EMOID: p.EMOID, Rel: p.Rel})
	}
	return out
}

func toLinks(in []linkPayload) []entities.Link {
	out := make([]entities.Link, 0, len(in))
	for _, l := range in {
		out = append(out, entities.Link{Kind: l.Kind, Ref: l.Ref})
	}
	return out
}

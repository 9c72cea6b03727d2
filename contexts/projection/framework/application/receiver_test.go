package application

import (
	"context"
	"testing"

	memorystore "mnemonicnexus/contexts/projection/framework/adapters/memory"
	"mnemonicnexus/internal/shared/events"
)

type fakeProjector struct {
	name     string
	applied  []int64
	applyErr error
}

func (f *fakeProjector) Name() string { return f.name }
func (f *fakeProjector) Lens() string { return "fake" }

func (f *fakeProjector) Apply(ctx context.Context, envelope events.Envelope, globalSeq int64) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, globalSeq)
	return nil
}

func (f *fakeProjector) Snapshot(ctx context.Context, worldID, branch string) (any, error) {
	return nil, nil
}

func envelopeWithPayload(globalSeq int64, payload map[string]any) events.Envelope {
	hash, err := events.ComputePayloadHash(payload)
	if err != nil {
		panic(err)
	}
	return events.Envelope{
		WorldID:     "world-1",
		Branch:      "main",
		GlobalSeq:   globalSeq,
		Payload:     payload,
		PayloadHash: hash,
	}
}

func TestReceiveAppliesAndAdvancesWatermark(t *testing.T) {
	projector := &fakeProjector{name: "relational"}
	watermarks := memorystore.NewWatermarkStore()
	receiver := Receiver{Projector: projector, Watermarks: watermarks}

	envelope := envelopeWithPayload(10, map[string]any{"content": "hello"})
	if err := receiver.Receive(context.Background(), envelope, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projector.applied) != 1 || projector.applied[0] != 10 {
		t.Fatalf("expected projector to apply global_seq 10, got %+v", projector.applied)
	}
	seq, found, err := watermarks.GetWatermark(context.Background(), "relational", "world-1", "main")
	if err != nil || !found || seq != 10 {
		t.Fatalf("expected watermark 10 to be recorded, got seq=%d found=%v err=%v", seq, found, err)
	}
}

func TestReceiveSkipGatesAlreadyProcessedSeq(t *testing.T) {
	projector := &fakeProjector{name: "relational"}
	watermarks := memorystore.NewWatermarkStore()
	receiver := Receiver{Projector: projector, Watermarks: watermarks}

	first := envelopeWithPayload(5, map[string]any{"content": "first"})
	if err := receiver.Receive(context.Background(), first, 5); err != nil {
		t.Fatalf("unexpected error on first delivery: %v", err)
	}

	redelivered := envelopeWithPayload(5, map[string]any{"content": "first"})
	if err := receiver.Receive(context.Background(), redelivered, 5); err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}
	if len(projector.applied) != 1 {
		t.Fatalf("expected redelivery at the same global_seq to be skip-gated, got %d applies", len(projector.applied))
	}
}

func TestReceiveRejectsPayloadHashMismatch(t *testing.T) {
	projector := &fakeProjector{name: "relational"}
	watermarks := memorystore.NewWatermarkStore()
	receiver := Receiver{Projector: projector, Watermarks: watermarks}

	envelope := envelopeWithPayload(1, map[string]any{"content": "hello"})
	envelope.PayloadHash = "deadbeef"

	err := receiver.Receive(context.Background(), envelope, 1)
	if err != ErrHashMismatch {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
	if len(projector.applied) != 0 {
		t.Fatalf("expected apply to be skipped on hash mismatch")
	}
}

// Package application implements the shared projector receiver: verify,
// apply, advance watermark, acknowledge — identical for every lens.
package application

import (
	"context"
	"errors"
	"log/slog"

	"mnemonicnexus/contexts/projection/framework/ports"
	"mnemonicnexus/internal/shared/events"
)

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ErrHashMismatch is returned when the delivered payload hash does not match
// the recomputed canonical hash — a structural rejection, not retryable.
var ErrHashMismatch = errors.New("payload hash mismatch")

// Receiver is the generic delivery endpoint wrapped around one Projector.
type Receiver struct {
	Projector  ports.Projector
	Watermarks ports.WatermarkStore
	Logger     *slog.Logger
}

// Receive runs the shared state machine from spec section 4.4: verify the
// payload hash, skip-gate on the watermark, apply, advance the watermark.
// It returns ErrHashMismatch for a structural rejection (callers must map
// this straight to the DLQ, not a retry) and any other error as retryable.
func (r Receiver) Receive(ctx context.Context, envelope events.Envelope, globalSeq int64) error {
	logger := ResolveLogger(r.Logger)

	ok, err := events.VerifyPayloadHash(envelope.Payload, envelope.PayloadHash)
	if err != nil {
		return err
	}
	if !ok {
		logger.Error("projector hash mismatch",
			"event", "projector_hash_mismatch",
			"module", "projection/framework",
			"layer", "application",
			"projector", r.Projector.Name(),
			"global_seq", globalSeq,
		)
		return ErrHashMismatch
	}

	lastProcessed, found, err := r.Watermarks.GetWatermark(ctx, r.Projector.Name(), envelope.WorldID, envelope.Branch)
	if err != nil {
		return err
	}
	if found && globalSeq <= lastProcessed {
		logger.Debug("projector skip-gated by watermark",
			"event", "projector_watermark_skip",
			"module", "projection/framework",
			"layer", "application",
			"projector", r.Projector.Name(),
			"global_seq", globalSeq,
			"last_processed_seq", lastProcessed,
		)
		return nil
	}

	if err := r.Projector.Apply(ctx, envelope, globalSeq); err != nil {
		logger.Error("projector apply failed",
			"event", "projector_apply_failed",
			"module", "projection/framework",
			"layer", "application",
			"projector", r.Projector.Name(),
			"global_seq", globalSeq,
			"error", err.Error(),
		)
		return err
	}

	if err := r.Watermarks.UpsertWatermark(ctx, r.Projector.Name(), envelope.WorldID, envelope.Branch, globalSeq); err != nil {
		logger.Error("projector watermark upsert failed",
			"event", "projector_watermark_upsert_failed",
			"module", "projection/framework",
			"layer", "application",
			"projector", r.Projector.Name(),
			"global_seq", globalSeq,
			"error", err.Error(),
		)
		return err
	}

	logger.Debug("projector applied event",
		"event", "projector_apply_completed",
		"module", "projection/framework",
		"layer", "application",
		"projector", r.Projector.Name(),
		"global_seq", globalSeq,
	)
	return nil
}

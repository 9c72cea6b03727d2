package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"mnemonicnexus/contexts/eventlog/publisher/ports"
	"mnemonicnexus/internal/shared/events"
	"mnemonicnexus/internal/shared/outbox"
)

// fanOut runs one goroutine per task concurrently, cancels the shared
// context on the first failure (the same short-circuit behavior
// errgroup.WithContext gives), and returns that first error. The
// application layer may only import the standard library, so this
// replicates errgroup's concern directly with sync.WaitGroup and
// context.WithCancel rather than importing it.
func fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			if err := fn(groupCtx, i); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// ResolveLogger returns the provided logger or falls back to slog default.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Relay is the CDC publisher's batch-claim, fan-out, and outcome-commit
// cycle. Within a stream (world_id, branch) events are claimed in
// global_seq order and delivered to every subscriber concurrently; a
// delivery only counts as published once all subscribers have accepted it.
type Relay struct {
	Store       ports.Store
	Subscribers []ports.Subscriber
	Clock       ports.Clock
	RetryPolicy RetryPolicy
	BatchSize   int
	PublisherID string
	Logger      *slog.Logger
}

// RunOnce claims one batch and processes it to completion, returning the
// number of rows claimed so the poll loop can decide whether to sleep.
func (r Relay) RunOnce(ctx context.Context) (int, error) {
	logger := ResolveLogger(r.Logger)

	limit := r.BatchSize
	if limit <= 0 {
		limit = 50
	}

	batch, err := r.Store.ClaimOutboxBatch(ctx, limit)
	if err != nil {
		logger.Error("publisher claim failed",
			"event", "publisher_claim_failed",
			"module", "eventlog/publisher",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := fanOut(ctx, len(batch), func(ctx context.Context, i int) error {
		return r.processRow(ctx, batch[i])
	}); err != nil {
		logger.Error("publisher batch processing failed",
			"event", "publisher_batch_failed",
			"module", "eventlog/publisher",
			"layer", "application",
			"error", err.Error(),
		)
		return len(batch), err
	}

	logger.Info("publisher batch processed",
		"event", "publisher_batch_completed",
		"module", "eventlog/publisher",
		"layer", "application",
		"batch_size", len(batch),
	)
	return len(batch), nil
}

func (r Relay) processRow(ctx context.Context, row outbox.Row) error {
	logger := ResolveLogger(r.Logger)

	var envelope events.Envelope
	if err := json.Unmarshal(row.EnvelopeRaw, &envelope); err != nil {
		logger.Error("publisher envelope decode failed",
			"event", "publisher_envelope_decode_failed",
			"module", "eventlog/publisher",
			"layer", "application",
			"global_seq", row.GlobalSeq,
			"error", err.Error(),
		)
		return r.Store.MoveToDLQ(ctx, row.GlobalSeq, err.Error(), r.PublisherID)
	}

	delivery := ports.Delivery{
		GlobalSeq:   row.GlobalSeq,
		EventID:     envelope.EventID,
		Envelope:    envelope,
		PayloadHash: row.PayloadHash,
	}

	var structuralRejection atomic.Bool
	deliverErr := fanOut(ctx, len(r.Subscribers), func(ctx context.Context, i int) error {
		if err := r.Subscribers[i].Deliver(ctx, delivery); err != nil {
			var subErr *ports.SubscriberError
			if errors.As(err, &subErr) && !subErr.Retryable {
				structuralRejection.Store(true)
			}
			return err
		}
		return nil
	})
	if deliverErr == nil {
		return r.Store.MarkPublished(ctx, row.GlobalSeq, r.now())
	}

	if structuralRejection.Load() {
		logger.Warn("publisher structural rejection, moving to dlq",
			"event", "publisher_structural_rejection",
			"module", "eventlog/publisher",
			"layer", "application",
			"global_seq", row.GlobalSeq,
			"error", deliverErr.Error(),
		)
		return r.Store.MoveToDLQ(ctx, row.GlobalSeq, deliverErr.Error(), r.PublisherID)
	}

	attempt := row.Attempts + 1
	if r.RetryPolicy.ShouldMoveToDLQ(attempt) {
		logger.Warn("publisher exhausted retries, moving to dlq",
			"event", "publisher_retries_exhausted",
			"module", "eventlog/publisher",
			"layer", "application",
			"global_seq", row.GlobalSeq,
			"attempt", attempt,
		)
		return r.Store.MoveToDLQ(ctx, row.GlobalSeq, deliverErr.Error(), r.PublisherID)
	}

	nextRetryAt := r.RetryPolicy.NextRetryAt(r.now(), attempt)
	logger.Warn("publisher delivery failed, scheduling retry",
		"event", "publisher_delivery_retry_scheduled",
		"module", "eventlog/publisher",
		"layer", "application",
		"global_seq", row.GlobalSeq,
		"attempt", attempt,
		"next_retry_at", nextRetryAt,
		"error", deliverErr.Error(),
	)
	return r.Store.MarkRetry(ctx, row.GlobalSeq, deliverErr.Error(), nextRetryAt)
}

func (r Relay) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

package application

import (
	"context"
	"log/slog"
	"time"

	"mnemonicnexus/contexts/eventlog/publisher/ports"
)

// Poller drives Relay.RunOnce in a loop: a non-empty batch is followed
// immediately by another claim attempt, an empty batch sleeps for
// PollInterval, and a claim error backs off per Backoff before retrying
// rather than busy-looping against a struggling database.
type Poller struct {
	Relay        Relay
	PollInterval time.Duration
	Backoff      ports.BackoffPolicy
	Logger       *slog.Logger
}

// Run polls until ctx is cancelled.
func (p Poller) Run(ctx context.Context) error {
	logger := ResolveLogger(p.Logger)
	pollInterval := p.PollInterval
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}

	errBackoff := p.Backoff

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		claimed, err := p.Relay.RunOnce(ctx)
		if err != nil {
			wait := errBackoff.NextBackOff()
			logger.Error("publisher poll cycle failed, backing off",
				"event", "publisher_poll_backoff",
				"module", "eventlog/publisher",
				"layer", "application",
				"wait", wait,
				"error", err.Error(),
			)
			if !sleep(ctx, wait) {
				return ctx.Err()
			}
			continue
		}
		errBackoff.Reset()

		if claimed == 0 {
			if !sleep(ctx, pollInterval) {
				return ctx.Err()
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

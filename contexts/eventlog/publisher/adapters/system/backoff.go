package system

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ExponentialBackoff adapts cenkalti/backoff's ExponentialBackOff to
// ports.BackoffPolicy, used by the poll loop to back off after a claim
// failure instead of busy-looping against a struggling database.
type ExponentialBackoff struct {
	inner *backoff.ExponentialBackOff
}

// NewExponentialBackoff builds the poller's default backoff schedule.
func NewExponentialBackoff() *ExponentialBackoff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return &ExponentialBackoff{inner: b}
}

func (e *ExponentialBackoff) NextBackOff() time.Duration { return e.inner.NextBackOff() }
func (e *ExponentialBackoff) Reset()                      { e.inner.Reset() }

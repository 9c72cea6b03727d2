// Package publisher is C3: the CDC relay that claims unpublished outbox
// rows and fans them out to every subscribed projector, advancing them to
// published, retry, or the dead letter queue.
package publisher

import (
	"log/slog"
	"time"

	"mnemonicnexus/contexts/eventlog/publisher/adapters/httpclient"
	"mnemonicnexus/contexts/eventlog/publisher/adapters/system"
	"mnemonicnexus/contexts/eventlog/publisher/application"
	"mnemonicnexus/contexts/eventlog/publisher/ports"
)

// Module bundles the publisher's wired poll loop.
type Module struct {
	Poller application.Poller
}

// Dependencies is what the bootstrap layer supplies to wire the publisher.
type Dependencies struct {
	Store                 ports.Store
	ProjectorEndpoints    []string
	ProjectorTimeout      time.Duration
	PollInterval          time.Duration
	BatchSize             int
	MaxProcessingAttempts int
	PublisherID           string
	Clock                 ports.Clock
	Logger                *slog.Logger
}

// NewModule wires the publisher's relay and poller against the supplied
// dependencies, building one HTTP subscriber per configured endpoint.
func NewModule(deps Dependencies) Module {
	clock := deps.Clock
	if clock == nil {
		clock = system.SystemClock{}
	}

	subscribers := make([]ports.Subscriber, 0, len(deps.ProjectorEndpoints))
	for _, endpoint := range deps.ProjectorEndpoints {
		subscribers = append(subscribers, httpclient.NewClient(endpoint, deps.PublisherID, deps.ProjectorTimeout))
	}

	retryPolicy := application.DefaultRetryPolicy()
	if deps.MaxProcessingAttempts > 0 {
		retryPolicy.MaxAttempts = deps.MaxProcessingAttempts
	}

	relay := application.Relay{
		Store:       deps.Store,
		Subscribers: subscribers,
		Clock:       clock,
		RetryPolicy: retryPolicy,
		BatchSize:   deps.BatchSize,
		PublisherID: deps.PublisherID,
		Logger:      deps.Logger,
	}

	return Module{
		Poller: application.Poller{
			Relay:        relay,
			PollInterval: deps.PollInterval,
			Backoff:      system.NewExponentialBackoff(),
			Logger:       deps.Logger,
		},
	}
}

// Package gateway is C2: the single public write/read surface over the
// event log. It never touches the outbox directly — all mutation goes
// through ports.Store, backed in production by the C1 log store.
package gateway

import (
	"log/slog"

	httpadapter "mnemonicnexus/contexts/eventlog/gateway/adapters/http"
	"mnemonicnexus/contexts/eventlog/gateway/adapters/system"
	"mnemonicnexus/contexts/eventlog/gateway/application/commands"
	"mnemonicnexus/contexts/eventlog/gateway/application/queries"
	"mnemonicnexus/contexts/eventlog/gateway/ports"
)

// Module bundles the gateway's wired HTTP surface.
type Module struct {
	Handler httpadapter.Handler
}

// Dependencies is what the bootstrap layer supplies to wire the gateway.
type Dependencies struct {
	Store       ports.Store
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the gateway's use cases against the supplied dependencies.
func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			AppendEvent: commands.AppendEventUseCase{
				Store:       deps.Store,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			ListEvents: queries.ListEventsUseCase{Store: deps.Store, Logger: deps.Logger},
			GetEvent:   queries.GetEventUseCase{Store: deps.Store, Logger: deps.Logger},
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires the gateway against an in-memory store, for tests
// and local development.
func NewInMemoryModule(store ports.Store, logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Store:       store,
		Clock:       system.SystemClock{},
		IDGenerator: system.UUIDGenerator{},
		Logger:      logger,
	})
}

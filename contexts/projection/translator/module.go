// Package translator is C6: the memory-to-EMO dual-write translator. It is
// both a projector (it consumes memory.* events) and an event producer (it
// appends the emo.* events it derives back onto the event log). Module
// exposes the lens's Translator (satisfying the framework's ports.Projector
// structurally); a bootstrap layer outside contexts/ wraps it with the
// shared framework.Module.
package translator

import (
	"log/slog"
	"time"

	"mnemonicnexus/contexts/projection/translator/adapters/httpclient"
	"mnemonicnexus/contexts/projection/translator/adapters/memory"
	"mnemonicnexus/contexts/projection/translator/adapters/system"
	"mnemonicnexus/contexts/projection/translator/application"
	"mnemonicnexus/contexts/projection/translator/ports"
)

// Module bundles the translator's wired Translator.
type Module struct {
	Translator application.Translator
}

// Dependencies is what the bootstrap layer supplies to wire this lens.
type Dependencies struct {
	Events  ports.EventAppender
	State   ports.StateStore
	Deriver ports.EMOIDDeriver
	IDGen   ports.IDGenerator
	Clock   ports.Clock
	Logger  *slog.Logger
}

// NewModule wires the translator against the supplied dependencies.
func NewModule(deps Dependencies) Module {
	return Module{
		Translator: application.Translator{
			Events:  deps.Events,
			State:   deps.State,
			Deriver: deps.Deriver,
			IDGen:   deps.IDGen,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the translator against in-memory state and a real
// gateway HTTP client, for tests and local development.
func NewInMemoryModule(gatewayURL string, logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Events:  httpclient.NewClient(gatewayURL, 5*time.Second),
		State:   memory.NewStateStore(),
		Deriver: system.EMOIDDeriver{},
		IDGen:   system.IDGenerator{},
		Clock:   system.SystemClock{},
		Logger:  logger,
	})
}

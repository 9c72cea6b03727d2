// Package graph is a concrete C4 projector implementing the graph lens:
// emo_id nodes and parent/link edges, treated as a black box behind
// Repository. Module exposes the lens's Projector (satisfying the
// framework's ports.Projector structurally); a bootstrap layer outside
// contexts/ wraps it with the shared framework.Module.
package graph

import (
	"log/slog"

	"mnemonicnexus/contexts/projection/graph/adapters/memory"
	"mnemonicnexus/contexts/projection/graph/application"
	"mnemonicnexus/contexts/projection/graph/ports"
)

// Module bundles the graph lens's Projector.
type Module struct {
	Projector application.Projector
}

// Dependencies is what the bootstrap layer supplies to wire this lens.
type Dependencies struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// NewModule wires the graph projector against the supplied Repository.
func NewModule(deps Dependencies) Module {
	return Module{
		Projector: application.Projector{Repository: deps.Repository, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the graph lens against an in-memory Repository,
// for tests and local development.
func NewInMemoryModule(logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Repository: memory.NewRepository(),
		Logger:     logger,
	})
}

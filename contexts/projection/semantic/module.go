// Package semantic is a concrete C4 projector implementing the vector lens:
// the same identity/version/deletion handling as the relational lens, with
// an embedding column populated by a pluggable EmbeddingClient. Module
// exposes the lens's Projector (satisfying the framework's ports.Projector
// structurally); a bootstrap layer outside contexts/ wraps it with the
// shared framework.Module.
package semantic

import (
	"log/slog"

	"mnemonicnexus/contexts/projection/semantic/adapters/memory"
	"mnemonicnexus/contexts/projection/semantic/application"
	"mnemonicnexus/contexts/projection/semantic/ports"
)

// Module bundles the semantic lens's Projector.
type Module struct {
	Projector application.Projector
}

// Dependencies is what the bootstrap layer supplies to wire this lens.
type Dependencies struct {
	Repository ports.Repository
	Embeddings ports.EmbeddingClient
	Logger     *slog.Logger
}

// NewModule wires the semantic projector against the supplied Repository
// and embedding client.
func NewModule(deps Dependencies) Module {
	return Module{
		Projector: application.Projector{
			Repository: deps.Repository,
			Embeddings: deps.Embeddings,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires the semantic lens against an in-memory Repository
// and the supplied embedding client, for tests and local development.
func NewInMemoryModule(embeddings ports.EmbeddingClient, logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Repository: memory.NewRepository(),
		Embeddings: embeddings,
		Logger:     logger,
	})
}

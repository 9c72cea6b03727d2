// Package relational is the C5 EMO relational lens: identity, versioning,
// soft-delete, and lineage over emo_current, emo_history, and emo_links.
// Module exposes the lens's Projector (satisfying the framework's
// ports.Projector structurally); a bootstrap layer outside contexts/ wraps
// it with the shared framework.Module to get the HTTP receiver, watermark
// gating, and snapshot-hash endpoint every lens shares.
package relational

import (
	"log/slog"

	"mnemonicnexus/contexts/projection/relational/adapters/memory"
	"mnemonicnexus/contexts/projection/relational/application"
	"mnemonicnexus/contexts/projection/relational/ports"
)

// Module bundles the relational lens's Projector.
type Module struct {
	Projector application.Projector
}

// Dependencies is what the bootstrap layer supplies to wire this lens.
type Dependencies struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// NewModule wires the relational projector against the supplied Repository.
func NewModule(deps Dependencies) Module {
	return Module{
		Projector: application.Projector{Repository: deps.Repository, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the relational lens against an in-memory
// Repository, for tests and local development.
func NewInMemoryModule(logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Repository: memory.NewRepository(),
		Logger:     logger,
	})
}

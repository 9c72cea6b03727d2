// Package framework is C4: the shared projector SDK. Every lens (relational,
// semantic, graph, translator) wraps its Projector implementation with
// NewModule to get an identical HTTP receiver, watermark gating, and
// snapshot-hash endpoint.
package framework

import (
	"log/slog"
	"net/http"

	httpadapter "mnemonicnexus/contexts/projection/framework/adapters/http"
	"mnemonicnexus/contexts/projection/framework/application"
	"mnemonicnexus/contexts/projection/framework/ports"
)

// Module bundles the wired HTTP surface for one projector.
type Module struct {
	Mux *http.ServeMux
}

// Dependencies is what a lens's bootstrap supplies to wire the framework
// around its own Projector implementation.
type Dependencies struct {
	Projector  ports.Projector
	Watermarks ports.WatermarkStore
	Logger     *slog.Logger
}

// NewModule wraps a concrete Projector with the shared reception endpoint.
func NewModule(deps Dependencies) Module {
	receiver := application.Receiver{
		Projector:  deps.Projector,
		Watermarks: deps.Watermarks,
		Logger:     deps.Logger,
	}
	return Module{
		Mux: httpadapter.NewMux(httpadapter.Handler{
			Receiver:  receiver,
			Projector: deps.Projector,
			Logger:    deps.Logger,
		}),
	}
}

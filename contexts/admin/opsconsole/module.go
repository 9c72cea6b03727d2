// Package opsconsole is C7: the admin and operational surface — rebuild
// orchestration, materialized view refresh, tenancy self-test, and
// projector/health reporting, grounded in
// original_source/services/gateway/admin.py and
// original_source/services/common/tenancy.py.
package opsconsole

import (
	"log/slog"
	"net/http"
	"time"

	"mnemonicnexus/contexts/admin/opsconsole/adapters/httpclient"
	httpadapter "mnemonicnexus/contexts/admin/opsconsole/adapters/http"
	"mnemonicnexus/contexts/admin/opsconsole/adapters/memory"
	"mnemonicnexus/contexts/admin/opsconsole/adapters/system"
	"mnemonicnexus/contexts/admin/opsconsole/application"
	"mnemonicnexus/contexts/admin/opsconsole/ports"
)

// Module bundles the admin surface's wired HTTP mux.
type Module struct {
	Mux *http.ServeMux
}

// Dependencies is what the bootstrap layer supplies to wire this context.
type Dependencies struct {
	Events     ports.EventSource
	Gateway    ports.ProjectorGateway
	Views      ports.ViewRefresher
	Tenancy    ports.TenancyProbe
	Lag        ports.ProjectorLagSource
	DBHealth   ports.DatabaseHealthSource
	IDGen      ports.IDGenerator
	Clock      ports.Clock
	Logger     *slog.Logger
}

// NewModule wires every admin operation against the supplied dependencies.
func NewModule(deps Dependencies) Module {
	statusService := application.StatusService{Lag: deps.Lag, Logger: deps.Logger}

	handler := httpadapter.Handler{
		Rebuild: application.RebuildService{
			Events:  deps.Events,
			Gateway: deps.Gateway,
			IDGen:   deps.IDGen,
			Logger:  deps.Logger,
		},
		Views: application.ViewService{
			Refresher: deps.Views,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		Tenancy: application.TenancyService{
			Probe:  deps.Tenancy,
			IDGen:  deps.IDGen,
			Logger: deps.Logger,
		},
		Status: statusService,
		Health: application.HealthService{
			DB:     deps.DBHealth,
			Status: statusService,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{Mux: httpadapter.NewMux(handler)}
}

// NewHTTPModule wires the admin surface against real HTTP projector clients
// and a database, for production use by cmd/admin.
func NewHTTPModule(events ports.EventSource, views ports.ViewRefresher, tenancy ports.TenancyProbe, lag ports.ProjectorLagSource, dbHealth ports.DatabaseHealthSource, projectorEndpoints map[string]string, projectorTimeout time.Duration, logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Events:   events,
		Gateway:  httpclient.NewProjectorGateway(projectorEndpoints, projectorTimeout),
		Views:    views,
		Tenancy:  tenancy,
		Lag:      lag,
		DBHealth: dbHealth,
		IDGen:    system.IDGenerator{},
		Clock:    system.SystemClock{},
		Logger:   logger,
	})
}

// NewInMemoryModule wires the admin surface entirely against in-memory
// fakes, for tests and local development without a database or projector
// fleet.
func NewInMemoryModule(logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Events:   memory.NewEventSource(),
		Gateway:  memory.NewProjectorGateway(),
		Views:    memory.NewViewRefresher(),
		Tenancy:  memory.NewTenancyProbe(),
		Lag:      memory.NewProjectorLagSource(),
		DBHealth: memory.NewDatabaseHealthSource(),
		IDGen:    system.IDGenerator{},
		Clock:    system.SystemClock{},
		Logger:   logger,
	})
}

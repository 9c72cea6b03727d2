package bootstrap

import (
	"context"
	"fmt"

	"mnemonicnexus/contexts/admin/opsconsole"
	opsconsolepg "mnemonicnexus/contexts/admin/opsconsole/adapters/postgres"
	"mnemonicnexus/internal/platform/config"
	"mnemonicnexus/internal/platform/db"
	"mnemonicnexus/internal/platform/httpserver"
)

// AdminApp is the built C7 process: the rebuild/tenancy/health/mv-refresh
// operational surface, reading the shared physical tables directly rather
// than importing any other service's packages.
type AdminApp struct {
	server *httpserver.Server
	pg     *db.Postgres
}

// BuildAdmin wires the admin surface against postgres and the configured
// projector endpoint map.
func BuildAdmin(ctx context.Context) (*AdminApp, error) {
	cfg := config.LoadAdminConfig()
	logger := newLogger("admin/opsconsole")

	pg, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{})
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: connect db: %w", err)
	}

	mod := opsconsole.NewHTTPModule(
		opsconsolepg.NewEventSource(pg),
		opsconsolepg.NewViewRefresher(pg),
		opsconsolepg.NewTenancyProbe(pg),
		opsconsolepg.NewProjectorLagSource(pg),
		opsconsolepg.NewDatabaseHealthSource(pg),
		cfg.ProjectorEndpoints,
		cfg.ProjectorTimeout,
		logger,
	)

	srv := httpserver.New(mod.Mux, cfg.ListenAddr, logger)
	return &AdminApp{server: srv, pg: pg}, nil
}

// Run blocks serving the admin surface's HTTP endpoints until shut down.
func (a *AdminApp) Run(ctx context.Context) error {
	return a.server.Start()
}

// Shutdown drains in-flight requests.
func (a *AdminApp) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Close releases the database connection pool.
func (a *AdminApp) Close() error {
	sqlDB, err := a.pg.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

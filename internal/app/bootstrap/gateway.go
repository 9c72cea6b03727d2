package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"mnemonicnexus/contexts/eventlog/gateway"
	gatewayhttp "mnemonicnexus/contexts/eventlog/gateway/adapters/http"
	gatewaysystem "mnemonicnexus/contexts/eventlog/gateway/adapters/system"
	"mnemonicnexus/contexts/eventlog/logstore"
	logstorepg "mnemonicnexus/contexts/eventlog/logstore/adapters/postgres"
	"mnemonicnexus/internal/platform/config"
	"mnemonicnexus/internal/platform/db"
	"mnemonicnexus/internal/platform/httpserver"
)

// GatewayApp is the built C2 process: the append/list/get HTTP surface
// backed by the C1 log store.
type GatewayApp struct {
	server *httpserver.Server
	pg     *db.Postgres
}

// BuildGateway wires the gateway's postgres store and HTTP handler, the
// composition root for cmd/gateway.
func BuildGateway(ctx context.Context) (*GatewayApp, error) {
	cfg := config.LoadGatewayConfig()
	logger := newLogger("eventlog/gateway")

	pg, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{})
	if err != nil {
		return nil, fmt.Errorf("bootstrap gateway: connect db: %w", err)
	}
	if err := logstorepg.Migrate(ctx, pg); err != nil {
		return nil, fmt.Errorf("bootstrap gateway: migrate log store: %w", err)
	}

	store := logstore.NewPostgresStore(pg, logger)
	mod := gateway.NewModule(gateway.Dependencies{
		Store:       store,
		Clock:       gatewaysystem.SystemClock{},
		IDGenerator: gatewaysystem.UUIDGenerator{},
		Logger:      logger,
	})

	srv := httpserver.New(gatewayhttp.NewMux(mod.Handler, cfg.SwaggerEnabled), cfg.ListenAddr, logger)
	return &GatewayApp{server: srv, pg: pg}, nil
}

// Run blocks serving the gateway's HTTP surface until shut down.
func (a *GatewayApp) Run(ctx context.Context) error {
	return a.server.Start()
}

// Shutdown drains in-flight requests.
func (a *GatewayApp) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Close releases the database connection pool.
func (a *GatewayApp) Close() error {
	sqlDB, err := a.pg.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newLogger builds the process-wide structured logger, tagging every line
// with the owning process so each context's own "module"/"layer" log keys
// compose with a consistent top-level identifier.
func newLogger(module string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler).With("process", module)
	slog.SetDefault(logger)
	return logger
}

package bootstrap

import (
	"context"
	"fmt"

	"mnemonicnexus/contexts/eventlog/logstore"
	"mnemonicnexus/contexts/eventlog/publisher"
	"mnemonicnexus/internal/platform/config"
	"mnemonicnexus/internal/platform/db"
)

// PublisherApp is the built C3 process: the CDC relay poll loop.
type PublisherApp struct {
	module publisher.Module
	pg     *db.Postgres
}

// BuildPublisher wires the publisher's postgres-backed outbox reader and
// one HTTP subscriber per configured projector endpoint.
func BuildPublisher(ctx context.Context) (*PublisherApp, error) {
	cfg := config.LoadPublisherConfig()
	logger := newLogger("eventlog/publisher")

	pg, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{})
	if err != nil {
		return nil, fmt.Errorf("bootstrap publisher: connect db: %w", err)
	}

	store := logstore.NewPostgresStore(pg, logger)
	mod := publisher.NewModule(publisher.Dependencies{
		Store:                 store,
		ProjectorEndpoints:    cfg.ProjectorEndpoints,
		ProjectorTimeout:      cfg.ProjectorTimeout,
		PollInterval:          cfg.PollInterval,
		BatchSize:             cfg.BatchSize,
		MaxProcessingAttempts: cfg.MaxProcessingAttempts,
		PublisherID:           cfg.PublisherID,
		Logger:                logger,
	})

	return &PublisherApp{module: mod, pg: pg}, nil
}

// Run blocks polling the outbox and relaying to every subscriber until ctx
// is cancelled.
func (a *PublisherApp) Run(ctx context.Context) error {
	return a.module.Poller.Run(ctx)
}

// Close releases the database connection pool.
func (a *PublisherApp) Close() error {
	sqlDB, err := a.pg.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

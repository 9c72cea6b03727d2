package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mnemonicnexus/contexts/projection/framework"
	frameworkports "mnemonicnexus/contexts/projection/framework/ports"
	frameworkpg "mnemonicnexus/contexts/projection/framework/adapters/postgres"

	"mnemonicnexus/contexts/projection/graph"
	graphpg "mnemonicnexus/contexts/projection/graph/adapters/postgres"

	"mnemonicnexus/contexts/projection/relational"
	relationalpg "mnemonicnexus/contexts/projection/relational/adapters/postgres"

	"mnemonicnexus/contexts/projection/semantic"
	semanticpg "mnemonicnexus/contexts/projection/semantic/adapters/postgres"

	"mnemonicnexus/contexts/projection/translator"
	translatorhttpclient "mnemonicnexus/contexts/projection/translator/adapters/httpclient"
	translatorpg "mnemonicnexus/contexts/projection/translator/adapters/postgres"
	translatorsystem "mnemonicnexus/contexts/projection/translator/adapters/system"

	"mnemonicnexus/internal/platform/config"
	"mnemonicnexus/internal/platform/db"
	"mnemonicnexus/internal/platform/httpserver"
)

// ProjectorApp is one of the four built C4/C5/C6 processes (relational,
// semantic, graph, translator), each wrapped with the shared framework's
// HTTP receiver, watermark gating, and snapshot endpoint.
type ProjectorApp struct {
	server *httpserver.Server
	pg     *db.Postgres
}

// BuildProjector selects a concrete lens by cfg.Name and wraps it with
// framework.NewModule, the only place in the tree that's allowed to import
// both a lens's package and the framework's — internal/app/bootstrap sits outside
// contexts/ and is exempt from the cross-service import boundary.
func BuildProjector(ctx context.Context, defaultName string) (*ProjectorApp, error) {
	cfg := config.LoadProjectorConfig(defaultName)
	logger := newLogger("projection/" + cfg.Name)

	pg, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{})
	if err != nil {
		return nil, fmt.Errorf("bootstrap projector %s: connect db: %w", cfg.Name, err)
	}
	if err := frameworkpg.Migrate(ctx, pg); err != nil {
		return nil, fmt.Errorf("bootstrap projector %s: migrate watermark store: %w", cfg.Name, err)
	}
	watermarks := frameworkpg.NewWatermarkStore(pg, logger)

	projector, err := buildLensProjector(ctx, cfg, pg, logger)
	if err != nil {
		return nil, err
	}

	mod := framework.NewModule(framework.Dependencies{
		Projector:  projector,
		Watermarks: watermarks,
		Logger:     logger,
	})

	srv := httpserver.New(mod.Mux, cfg.ListenAddr, logger)
	return &ProjectorApp{server: srv, pg: pg}, nil
}

func buildLensProjector(ctx context.Context, cfg config.ProjectorConfig, pg *db.Postgres, logger *slog.Logger) (frameworkports.Projector, error) {
	switch cfg.Name {
	case "relational":
		if err := relationalpg.Migrate(ctx, pg); err != nil {
			return nil, fmt.Errorf("migrate relational lens: %w", err)
		}
		mod := relational.NewModule(relational.Dependencies{
			Repository: relationalpg.NewRepository(pg, logger),
			Logger:     logger,
		})
		return mod.Projector, nil

	case "semantic":
		if err := semanticpg.Migrate(ctx, pg); err != nil {
			return nil, fmt.Errorf("migrate semantic lens: %w", err)
		}
		mod := semantic.NewModule(semantic.Dependencies{
			Repository: semanticpg.NewRepository(pg, logger),
			// No embedding model is wired, so no vectors are stored; the
			// memory.embedding_available marker the translator emits for
			// memory.embed.generated only records the model name.
			Embeddings: nil,
			Logger:     logger,
		})
		return mod.Projector, nil

	case "graph":
		if err := graphpg.Migrate(ctx, pg); err != nil {
			return nil, fmt.Errorf("migrate graph lens: %w", err)
		}
		mod := graph.NewModule(graph.Dependencies{
			Repository: graphpg.NewRepository(pg, logger),
			Logger:     logger,
		})
		return mod.Projector, nil

	case "translator":
		if err := translatorpg.Migrate(ctx, pg); err != nil {
			return nil, fmt.Errorf("migrate translator state store: %w", err)
		}
		mod := translator.NewModule(translator.Dependencies{
			Events:  translatorhttpclient.NewClient(cfg.GatewayURL, 5*time.Second),
			State:   translatorpg.NewStateStore(pg, logger),
			Deriver: translatorsystem.EMOIDDeriver{},
			IDGen:   translatorsystem.IDGenerator{},
			Clock:   translatorsystem.SystemClock{},
			Logger:  logger,
		})
		return mod.Translator, nil

	default:
		return nil, fmt.Errorf("unknown projector name %q (want relational, semantic, graph, or translator)", cfg.Name)
	}
}

// Run blocks serving the projector's HTTP receiver until shut down.
func (a *ProjectorApp) Run(ctx context.Context) error {
	return a.server.Start()
}

// Shutdown drains in-flight requests.
func (a *ProjectorApp) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Close releases the database connection pool.
func (a *ProjectorApp) Close() error {
	sqlDB, err := a.pg.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

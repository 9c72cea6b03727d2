// Command admin runs the operational surface: projector rebuilds,
// materialized view refresh, tenancy self-test, and projector/health
// reporting (C7).
//
// Data flow:
// 1) Load config, including the projector endpoint map.
// 2) Build app wiring against postgres and the configured projectors.
// 3) Start the HTTP server until an interrupt or terminate signal arrives.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"mnemonicnexus/internal/app/bootstrap"
)

func main() {
	log.Println("mnemonicnexus admin starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAdmin(ctx)
	if err != nil {
		log.Fatalf("bootstrap admin failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("admin shutdown close failed: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("mnemonicnexus admin stopped with error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("admin graceful shutdown failed: %v", err)
		}
	}
}

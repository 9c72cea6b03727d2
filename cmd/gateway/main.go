// Command gateway runs the single public write/read surface over the
// event log (C2).
//
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
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
	log.Println("mnemonicnexus gateway starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildGateway(ctx)
	if err != nil {
		log.Fatalf("bootstrap gateway failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("gateway shutdown close failed: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("mnemonicnexus gateway stopped with error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("gateway graceful shutdown failed: %v", err)
		}
	}
}

// Command projector runs one concrete projector process: relational,
// semantic, graph, or translator, selected by PROJECTOR_NAME (C4/C5/C6).
//
// Data flow:
// 1) Load config, including which lens to build.
// 2) Build app wiring (lens Repository/StateStore + the shared framework's
//    HTTP receiver, watermark gating, and snapshot endpoint).
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
	log.Println("mnemonicnexus projector starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildProjector(ctx, "relational")
	if err != nil {
		log.Fatalf("bootstrap projector failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("projector shutdown close failed: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("mnemonicnexus projector stopped with error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("projector graceful shutdown failed: %v", err)
		}
	}
}

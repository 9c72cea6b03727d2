// Command publisher runs the CDC relay that claims unpublished outbox rows
// and fans them out to every subscribed projector (C3).
//
// Data flow:
// 1) Load config.
// 2) Build app wiring (outbox reader + HTTP subscribers).
// 3) Poll until an interrupt or terminate signal arrives.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"mnemonicnexus/internal/app/bootstrap"
)

func main() {
	log.Println("mnemonicnexus publisher starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildPublisher(ctx)
	if err != nil {
		log.Fatalf("bootstrap publisher failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("publisher shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("mnemonicnexus publisher stopped with error: %v", err)
	}
}

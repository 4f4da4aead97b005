// Command server runs the vocabulary HTTP API.
//
// Configuration is read from CONFIG_PATH (or ./config.yaml) with environment
// variable overrides. The server shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/readmemo/vocab-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

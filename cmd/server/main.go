// Command server runs the vocabulary learning API.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dkotenko/lexibatch-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

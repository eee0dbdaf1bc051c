// Command migrate applies the embedded schema migrations to the
// configured database.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkotenko/lexibatch-backend/internal/app"
	"github.com/dkotenko/lexibatch-backend/internal/config"
	"github.com/dkotenko/lexibatch-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		logger.Error("create migration provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		logger.Error("apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, res := range results {
		logger.Info("applied migration",
			slog.String("source", res.Source.Path),
			slog.Duration("duration", res.Duration),
		)
	}

	logger.Info("migrations up to date", slog.Int("applied", len(results)))
}

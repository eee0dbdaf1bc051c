// Command create-user provisions a learner account. Identity is verified
// upstream, so new learners enter the system through this operational
// command rather than a public signup endpoint.
//
// Re-running with an existing email prints the existing learner's id and
// succeeds, so provisioning scripts can be retried safely.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/user"
	"github.com/dkotenko/lexibatch-backend/internal/app"
	"github.com/dkotenko/lexibatch-backend/internal/config"
	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

func main() {
	email := flag.String("email", "", "learner email (required)")
	name := flag.String("name", "", "display name (required)")
	language := flag.String("language", "es", "language being learned")
	native := flag.String("native", "en", "learner's native language")
	level := flag.String("level", "A1", "starting proficiency level")
	flag.Parse()

	if *email == "" || *name == "" {
		flag.Usage()
		os.Exit(1)
	}

	startLevel := domain.Level(*level)
	if !startLevel.IsValid() {
		log.Fatalf("invalid level %q", *level)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := user.New(pool)

	if existing, err := repo.GetByEmail(ctx, *email); err == nil {
		fmt.Println(existing.ID)
		logger.Info("learner already exists", slog.String("email", *email))
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("look up learner", slog.String("error", err.Error()))
		os.Exit(1)
	}

	now := time.Now().UTC()
	created, err := repo.Create(ctx, &domain.User{
		ID:             uuid.New(),
		Email:          *email,
		Name:           *name,
		Language:       domain.Language(*language),
		NativeLanguage: domain.Language(*native),
		CurrentLevel:   startLevel,
		CurrentBatch:   1,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		logger.Error("create learner", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(created.ID)
	logger.Info("learner created",
		slog.String("email", *email),
		slog.String("level", startLevel.String()),
	)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/anthropic"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/activity"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/user"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/word"
	"github.com/dkotenko/lexibatch-backend/internal/cache"
	"github.com/dkotenko/lexibatch-backend/internal/config"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression/policy"
	"github.com/dkotenko/lexibatch-backend/internal/service/vocab"
	"github.com/dkotenko/lexibatch-backend/internal/transport/middleware"
	"github.com/dkotenko/lexibatch-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// adapters, services, and HTTP transport, and blocks until ctx is
// cancelled, then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	wordRepo := word.New(pool)
	userRepo := user.New(pool)
	activityRepo := activity.New(pool)
	txManager := postgres.NewTxManager(pool)

	policyCfg := policy.Config{
		WordsPerBatch:         cfg.Learning.WordsPerBatch,
		WordsPerLevel:         cfg.Learning.WordsPerLevel,
		MinCompletionFraction: cfg.Learning.MinCompletionFraction,
	}

	store := cache.NewMemoryStore(cache.MemoryStoreOptions{
		MaxEntries: cfg.Cache.MaxEntries,
	})
	store.StartCleanup(ctx, cfg.Cache.CleanupInterval)

	// InvalidateUser enumerates per-batch keys, so the bound is the real
	// batch count per level, not a cache sizing knob.
	wordCache := cache.NewWordCache(store, cache.TTLConfig{
		UserWords:     cfg.Cache.UserWordsTTL,
		LearnedWords:  cfg.Cache.LearnedWordsTTL,
		WordCount:     cfg.Cache.CountTTL,
		Batch:         cfg.Cache.BatchTTL,
		BatchStats:    cfg.Cache.StatsTTL,
		GeneratedPool: cfg.Cache.PoolTTL,
	}, policyCfg.BatchesPerLevel())

	generator := anthropic.New(anthropic.Config{
		APIKey:    cfg.Generator.APIKey,
		Model:     cfg.Generator.Model,
		MaxTokens: cfg.Generator.MaxTokens,
	})

	vocabSvc := vocab.NewService(logger, wordRepo, userRepo, generator, wordCache, txManager, policyCfg,
		cfg.Generator.Timeout)
	progressionSvc := progression.NewService(logger, wordRepo, userRepo, activityRepo, wordCache, policyCfg)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(pool, store, BuildVersion()),
		Word:     rest.NewWordHandler(vocabSvc, policyCfg, logger),
		Progress: rest.NewProgressHandler(progressionSvc, logger),
		Generate: rest.NewGenerateHandler(vocabSvc, logger),
	}, limiter, cfg.Server, cfg.CORS, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

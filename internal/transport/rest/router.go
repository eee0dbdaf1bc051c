package rest

import (
	"log/slog"
	"net/http"

	"github.com/dkotenko/lexibatch-backend/internal/config"
	"github.com/dkotenko/lexibatch-backend/internal/transport/middleware"
)

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Word     *WordHandler
	Progress *ProgressHandler
	Generate *GenerateHandler
}

// NewRouter builds the HTTP routing table. Probe endpoints are public;
// everything under /api/v1 requires a caller identity. The generation
// endpoint additionally carries a per-user rate limit because each call
// can trigger a paid LLM request.
func NewRouter(h Handlers, limiter *middleware.RateLimiter, srv config.ServerConfig, cors config.CORSConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	api := middleware.Chain(middleware.Identity)

	mux.Handle("GET /api/v1/levels/{level}/batches", api(http.HandlerFunc(h.Word.ListBatches)))
	mux.Handle("GET /api/v1/levels/{level}/batches/{batch}", api(http.HandlerFunc(h.Word.GetBatch)))
	mux.Handle("GET /api/v1/words", api(http.HandlerFunc(h.Word.ListWords)))
	mux.Handle("GET /api/v1/words/{id}", api(http.HandlerFunc(h.Word.GetWord)))
	mux.Handle("PATCH /api/v1/words/{id}/status", api(http.HandlerFunc(h.Progress.SetWordStatus)))
	mux.Handle("GET /api/v1/progress", api(http.HandlerFunc(h.Progress.GetProgress)))
	mux.Handle("POST /api/v1/progress/level", api(http.HandlerFunc(h.Progress.ProgressLevel)))
	mux.Handle("POST /api/v1/activity", api(http.HandlerFunc(h.Progress.RecordActivity)))

	generate := middleware.Chain(middleware.Identity, limiter.Limit(srv.GenerateRateLimit))
	mux.Handle("POST /api/v1/words/generate", generate(http.HandlerFunc(h.Generate.Generate)))

	base := middleware.Chain(
		middleware.RequestID,
		middleware.CORS(cors),
		middleware.Recovery(logger),
		middleware.Logger(logger),
	)
	return base(mux)
}

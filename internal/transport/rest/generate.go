package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/pkg/ctxutil"
	"github.com/dkotenko/lexibatch-backend/pkg/fetchcache"
)

// wordGenerator defines the minimal interface needed by GenerateHandler.
type wordGenerator interface {
	GenerateWords(ctx context.Context, userID uuid.UUID) ([]domain.Word, error)
}

// GenerateHandler serves the word-generation endpoint.
type GenerateHandler struct {
	svc   wordGenerator
	guard *fetchcache.TokenGuard
	log   *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(svc wordGenerator, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		svc:   svc,
		guard: fetchcache.NewTokenGuard(),
		log:   logger.With("handler", "generate"),
	}
}

// Generate creates the next portion of vocabulary for the caller.
// POST /api/v1/words/generate
//
// Generation is slow. If the user fires the endpoint again while an
// earlier call is still in flight, only the newest call's response is
// delivered; the superseded one is discarded so the client never renders
// words from an abandoned attempt.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key := "generate:" + userID.String()
	token := h.guard.Begin(key)
	defer h.guard.Finish(key, token)

	words, err := h.svc.GenerateWords(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if !h.guard.Current(key, token) {
		h.log.InfoContext(r.Context(), "discarding superseded generation response",
			slog.String("user_id", userID.String()),
		)
		writeError(w, http.StatusConflict, "superseded by a newer request")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"generated": len(words),
		"words":     toWordResponses(words),
	})
}

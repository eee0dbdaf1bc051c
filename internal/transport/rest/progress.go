package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/pkg/ctxutil"
)

// progressionService defines the minimal interface needed by ProgressHandler.
type progressionService interface {
	ProgressLevel(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SetWordStatus(ctx context.Context, userID, wordID uuid.UUID, learned bool) (domain.Word, error)
	GetLevelProgress(ctx context.Context, userID uuid.UUID) ([]domain.LevelProgress, error)
	GetCurrentBatch(ctx context.Context, userID uuid.UUID) (int, error)
	RecordActivity(ctx context.Context, userID uuid.UUID) (domain.StreakInfo, error)
}

// ProgressHandler serves progression REST endpoints.
type ProgressHandler struct {
	svc progressionService
	log *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(svc progressionService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: logger.With("handler", "progress")}
}

type wordStatusRequest struct {
	Learned bool `json:"learned"`
}

type levelProgressResponse struct {
	Level        string  `json:"level"`
	Learned      int     `json:"learned"`
	Total        int     `json:"total"`
	Percentage   float64 `json:"percentage"`
	CanProgress  bool    `json:"canProgress"`
	IsCompleted  bool    `json:"isCompleted"`
	IsCurrent    bool    `json:"isCurrent"`
	IsAccessible bool    `json:"isAccessible"`
}

type progressionResponse struct {
	CurrentLevel string `json:"currentLevel"`
	CurrentBatch int    `json:"currentBatch"`
}

type streakResponse struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// SetWordStatus marks a word learned or unlearned.
// PATCH /api/v1/words/{id}/status
func (h *ProgressHandler) SetWordStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid word id")
		return
	}

	var req wordStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	word, err := h.svc.SetWordStatus(r.Context(), userID, wordID, req.Learned)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWordResponse(word))
}

// ProgressLevel advances the caller to the next level.
// POST /api/v1/progress/level
func (h *ProgressHandler) ProgressLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.svc.ProgressLevel(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progressionResponse{
		CurrentLevel: user.CurrentLevel.String(),
		CurrentBatch: user.CurrentBatch,
	})
}

// GetProgress returns per-level progress plus the caller's working batch.
// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	levels, err := h.svc.GetLevelProgress(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	batch, err := h.svc.GetCurrentBatch(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]levelProgressResponse, 0, len(levels))
	for _, lp := range levels {
		out = append(out, levelProgressResponse{
			Level:        lp.Level.String(),
			Learned:      lp.Learned,
			Total:        lp.Total,
			Percentage:   lp.Percentage,
			CanProgress:  lp.CanProgress,
			IsCompleted:  lp.IsCompleted,
			IsCurrent:    lp.IsCurrent,
			IsAccessible: lp.IsAccessible,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"levels":       out,
		"currentBatch": batch,
	})
}

// RecordActivity marks the caller active today and returns streak counters.
// POST /api/v1/activity
func (h *ProgressHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	streak, err := h.svc.RecordActivity(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
	})
}

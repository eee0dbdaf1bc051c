package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression/policy"
	"github.com/dkotenko/lexibatch-backend/pkg/ctxutil"
)

// vocabService defines the minimal interface needed by WordHandler.
type vocabService interface {
	ListBatch(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, error)
	GetBatchStats(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, error)
	GetBatchStatsByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) ([]domain.BatchStats, error)
	GetWord(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error)
	ListUserWords(ctx context.Context, userID uuid.UUID, level domain.Level, f domain.WordFilter) ([]domain.Word, error)
	GetWordCount(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
}

// WordHandler serves vocabulary REST endpoints.
type WordHandler struct {
	svc    vocabService
	policy policy.Config
	log    *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc vocabService, cfg policy.Config, logger *slog.Logger) *WordHandler {
	return &WordHandler{svc: svc, policy: cfg, log: logger.With("handler", "word")}
}

type wordResponse struct {
	ID          string `json:"id"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Level       string `json:"level"`
	BatchNumber int    `json:"batchNumber"`
	Learned     bool   `json:"learned"`
}

type batchResponse struct {
	BatchNumber int  `json:"batchNumber"`
	Total       int  `json:"total"`
	Learned     int  `json:"learned"`
	IsComplete  bool `json:"isComplete"`
	WordsNeeded int  `json:"wordsNeeded"`
}

type batchDetailResponse struct {
	BatchNumber int            `json:"batchNumber"`
	Level       string         `json:"level"`
	Total       int            `json:"total"`
	Learned     int            `json:"learned"`
	IsComplete  bool           `json:"isComplete"`
	Words       []wordResponse `json:"words"`
}

// ListBatches returns per-batch statistics for one level.
// GET /api/v1/levels/{level}/batches
func (h *WordHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	level := domain.Level(r.PathValue("level"))
	if !level.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown level")
		return
	}

	// Every batch slot of the level is reported, empty ones included, so
	// the client can render the full grid. The loader coalesces the
	// per-batch lookups into a single aggregate query.
	loader := newBatchStatsLoader(h.svc, userID, level)

	numbers := make([]int, h.policy.BatchesPerLevel())
	for i := range numbers {
		numbers[i] = i + 1
	}

	stats, errs := loader.LoadMany(r.Context(), numbers)()
	for _, err := range errs {
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	out := make([]batchResponse, 0, len(stats))
	for _, st := range stats {
		integrity := h.policy.ValidateBatchIntegrity(st.Total)
		out = append(out, batchResponse{
			BatchNumber: st.BatchNumber,
			Total:       st.Total,
			Learned:     st.Learned,
			IsComplete:  st.Total > 0 && st.Learned == st.Total,
			WordsNeeded: integrity.WordsNeeded,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"level":   level.String(),
		"batches": out,
	})
}

// GetBatch returns the words of one batch.
// GET /api/v1/levels/{level}/batches/{batch}
func (h *WordHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	level := domain.Level(r.PathValue("level"))
	if !level.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown level")
		return
	}

	batch, err := strconv.Atoi(r.PathValue("batch"))
	if err != nil || batch < 1 || batch > h.policy.BatchesPerLevel() {
		writeError(w, http.StatusBadRequest, "invalid batch number")
		return
	}

	words, err := h.svc.ListBatch(r.Context(), userID, level, batch)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	stats, err := h.svc.GetBatchStats(r.Context(), userID, level, batch)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, batchDetailResponse{
		BatchNumber: batch,
		Level:       level.String(),
		Total:       stats.Total,
		Learned:     stats.Learned,
		IsComplete:  stats.Total > 0 && stats.Learned == stats.Total,
		Words:       toWordResponses(words),
	})
}

// GetWord returns a single word owned by the caller.
// GET /api/v1/words/{id}
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
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

	word, err := h.svc.GetWord(r.Context(), userID, wordID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWordResponse(word))
}

// ListWords returns the caller's words for a level with optional filters.
// GET /api/v1/words?level=A1&batch=3&learned=true&search=cas&sortBy=original&sortOrder=desc&limit=50&offset=0
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()

	level := domain.Level(q.Get("level"))
	if !level.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown level")
		return
	}

	f, err := filterFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	words, err := h.svc.ListUserWords(r.Context(), userID, level, f)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	count, err := h.svc.GetWordCount(r.Context(), userID, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"words": toWordResponses(words),
		"total": count,
	})
}

func toWordResponse(word domain.Word) wordResponse {
	return wordResponse{
		ID:          word.ID.String(),
		Original:    word.Original,
		Translation: word.Translation,
		Level:       word.Level.String(),
		BatchNumber: word.BatchNumber,
		Learned:     word.Learned,
	}
}

func toWordResponses(words []domain.Word) []wordResponse {
	out := make([]wordResponse, 0, len(words))
	for _, word := range words {
		out = append(out, toWordResponse(word))
	}
	return out
}

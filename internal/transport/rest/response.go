package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// insufficientProgressResponse carries the counts the client needs to
// render an actionable "N words to go" message.
type insufficientProgressResponse struct {
	Error     string `json:"error"`
	Level     string `json:"level"`
	Required  int    `json:"required"`
	Current   int    `json:"current"`
	Remaining int    `json:"remaining"`
}

// handleError maps domain errors to HTTP statuses. Unknown errors are
// logged and masked as 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ipErr *domain.InsufficientProgressError
	if errors.As(err, &ipErr) {
		writeJSON(w, http.StatusConflict, insufficientProgressResponse{
			Error:     "insufficient progress",
			Level:     ipErr.Level.String(),
			Required:  ipErr.Required,
			Current:   ipErr.Current,
			Remaining: ipErr.Remaining(),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrNoNextLevel):
		writeError(w, http.StatusConflict, "already at the highest level")
	case errors.Is(err, domain.ErrGenerationMalformed):
		writeError(w, http.StatusBadGateway, "word generation failed, try again later")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

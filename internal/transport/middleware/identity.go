package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/pkg/ctxutil"
)

// Identity extracts the learner ID from the X-User-Id header and stores it
// in the request context. Requests without a valid ID are rejected so
// handlers can rely on the ID always being present.
//
// Authentication proper is terminated upstream; this service only needs
// the already-verified identity.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-Id")
		if raw == "" {
			http.Error(w, `{"error":"missing user identity"}`, http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, `{"error":"invalid user identity"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), id)))
	})
}

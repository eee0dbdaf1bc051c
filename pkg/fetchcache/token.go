package fetchcache

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGuard hands out a fresh identity token per logical request and
// remembers only the newest one per key. Consumers call Begin before
// starting a request and Current when the response arrives; a stale token
// means a newer request superseded this one and its result should be
// dropped rather than overwrite newer state.
type TokenGuard struct {
	mu      sync.Mutex
	current map[string]uuid.UUID
}

// NewTokenGuard creates an empty TokenGuard.
func NewTokenGuard() *TokenGuard {
	return &TokenGuard{current: make(map[string]uuid.UUID)}
}

// Begin registers a new request for key and returns its token.
func (g *TokenGuard) Begin(key string) uuid.UUID {
	token := uuid.New()
	g.mu.Lock()
	g.current[key] = token
	g.mu.Unlock()
	return token
}

// Current reports whether token is still the newest request for key.
func (g *TokenGuard) Current(key string, token uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current[key] == token
}

// Finish clears the key if token is still current, so a completed request
// does not leave a dangling marker.
func (g *TokenGuard) Finish(key string, token uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current[key] == token {
		delete(g.current, key)
	}
}

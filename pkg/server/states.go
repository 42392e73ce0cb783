package server

import (
	"sync"

	"github.com/google/uuid"
)

// stateRegistry issues and validates one-time anti-forgery (state) tokens.
//
// It keeps a set rather than a single value so that a callback from an older
// browser tab that was opened before a newer Listen call still validates.
type stateRegistry struct {
	mu    sync.Mutex
	valid map[string]struct{}
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{valid: make(map[string]struct{})}
}

// issue generates a random v4 UUID, records it as valid and returns it.
func (r *stateRegistry) issue() string {
	token := uuid.NewString()
	r.mu.Lock()
	r.valid[token] = struct{}{}
	r.mu.Unlock()
	return token
}

// consume removes token and reports whether it was valid. Only one of any
// number of concurrent consume calls for the same token returns true.
func (r *stateRegistry) consume(token string) bool {
	if token == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.valid[token]; !ok {
		return false
	}
	delete(r.valid, token)
	return true
}

func (r *stateRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.valid)
}

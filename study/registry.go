package study

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps one study Session per browsing session and deck.
type Registry struct {
	mu       sync.Mutex
	backend  Backend
	logger   *zap.Logger
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewRegistry(backend Backend, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{backend: backend, logger: logger, sessions: make(map[string]*entry), now: time.Now}
}

func registryKey(key string, deckID uint) string {
	return fmt.Sprintf("%s/%d", key, deckID)
}

// Get returns key's session for deckID, creating one in the loading state
// if none exists.
func (r *Registry) Get(key string, deckID uint) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := registryKey(key, deckID)
	e, ok := r.sessions[k]
	if !ok {
		e = &entry{session: NewSession(r.backend, deckID, r.logger)}
		r.sessions[k] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Reset forgets key's session for deckID so the next Get reloads the deck.
func (r *Registry) Reset(key string, deckID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, registryKey(key, deckID))
}

// Sweep drops sessions not used for longer than idle and reports how many
// were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for k, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, k)
			n++
		}
	}
	return n
}

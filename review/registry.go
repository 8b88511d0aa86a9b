package review

import (
	"sync"
	"time"
)

// Registry keeps one review Session per browsing session.
type Registry struct {
	mu       sync.Mutex
	flow     Flow
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewRegistry(flow Flow) *Registry {
	return &Registry{flow: flow, sessions: make(map[string]*entry), now: time.Now}
}

// Get returns the session for key, creating a fresh one in the loading
// state if none exists or the previous one is finished.
func (r *Registry) Get(key string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[key]
	if !ok || e.session.State() == StateDone {
		e = &entry{session: NewSession(r.flow, key)}
		r.sessions[key] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Reset forgets key's session, e.g. after a new preview was generated.
func (r *Registry) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Sweep drops sessions not used for longer than idle and reports how many
// were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for key, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, key)
			n++
		}
	}
	return n
}

package review

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/session"
)

type registryEntry struct {
	sess     *session.Session
	lastUsed time.Time
}

// registry holds live sessions. Every lookup refreshes the entry's
// last-used time so idle eviction only drops abandoned sessions.
type registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[uuid.UUID]*registryEntry)}
}

func (r *registry) put(sess *session.Session, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[sess.ID()] = &registryEntry{sess: sess, lastUsed: now}
}

func (r *registry) get(id uuid.UUID, now time.Time) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = now
	return e.sess, true
}

func (r *registry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}

// evictIdle drops sessions unused since before cutoff and returns their IDs.
func (r *registry) evictIdle(cutoff time.Time) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []uuid.UUID
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

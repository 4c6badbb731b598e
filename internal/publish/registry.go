package publish

import (
	"errors"
	"sync"
	"time"

	"github.com/cuentix/inventory_api/internal/models"
)

// ErrDraftNotFound is returned when a draft id is unknown or already swept.
var ErrDraftNotFound = errors.New("draft not found")

// Registry holds open wizard drafts in memory, keyed by draft id. Access is
// serialized so concurrent edits to one draft cannot interleave.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
}

// NewRegistry constructs a Registry. Drafts idle longer than ttl are removed
// by Sweep.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		drafts: make(map[string]*Draft),
		ttl:    ttl,
	}
}

// Open creates a draft for the given source account and returns it.
func (r *Registry) Open(acc *models.Account, origin models.Pool) *Draft {
	d := NewDraft(acc, origin)
	r.mu.Lock()
	r.drafts[d.ID] = d
	r.mu.Unlock()
	return d
}

// With runs fn against the identified draft while holding the registry
// lock. The callback must not retain the draft past its return.
func (r *Registry) With(id string, fn func(*Draft) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	return fn(d)
}

// Discard removes a draft, typically after a successful publish or an
// explicit close.
func (r *Registry) Discard(id string) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

// Sweep drops drafts that have been idle past the registry TTL and returns
// how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.ttl)
	removed := 0
	for id, d := range r.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed
}

package confirm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNothingStaged is returned when confirm or cancel is called with no
// pending action for the principal.
var ErrNothingStaged = errors.New("no action staged")

// Action is the deferred operation executed on confirm.
type Action func(ctx context.Context) error

type pending struct {
	action   Action
	title    string
	message  string
	stagedAt time.Time
}

// Gate holds at most one pending consequential action per principal.
// Staging a new action while one is pending silently replaces it; there is
// no queue.
type Gate struct {
	mu     sync.Mutex
	staged map[string]*pending
	maxAge time.Duration
}

// NewGate constructs a Gate. Actions staged longer than maxAge are dropped
// by Sweep.
func NewGate(maxAge time.Duration) *Gate {
	return &Gate{
		staged: make(map[string]*pending),
		maxAge: maxAge,
	}
}

// Stage records the pending action with its interstitial title and message.
func (g *Gate) Stage(principal, title, message string, action Action) {
	g.mu.Lock()
	g.staged[principal] = &pending{
		action:   action,
		title:    title,
		message:  message,
		stagedAt: time.Now(),
	}
	g.mu.Unlock()
}

// Pending returns the staged title and message, or false if nothing is
// staged for the principal.
func (g *Gate) Pending(principal string) (title, message string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.staged[principal]
	if !ok {
		return "", "", false
	}
	return p.title, p.message, true
}

// Confirm executes the pending action and clears it. The slot is cleared
// even when the action fails; retrying requires staging again.
func (g *Gate) Confirm(ctx context.Context, principal string) error {
	g.mu.Lock()
	p, ok := g.staged[principal]
	delete(g.staged, principal)
	g.mu.Unlock()
	if !ok {
		return ErrNothingStaged
	}
	return p.action(ctx)
}

// Cancel clears the pending action without executing it.
func (g *Gate) Cancel(principal string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.staged[principal]; !ok {
		return ErrNothingStaged
	}
	delete(g.staged, principal)
	return nil
}

// Sweep drops stale staged actions and returns how many were removed.
func (g *Gate) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	cutoff := time.Now().Add(-g.maxAge)
	removed := 0
	for principal, p := range g.staged {
		if p.stagedAt.Before(cutoff) {
			delete(g.staged, principal)
			removed++
		}
	}
	return removed
}

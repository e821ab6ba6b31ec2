// Package session owns the process-wide session state consumed by the
// presentation layer.
//
// Holder state graph:
//
//	UNINITIALIZED ──► LOADING ──► AUTHENTICATED ◄──► ANONYMOUS
//
// Start enters LOADING and subscribes to session changes; the subscription
// replays the current state immediately, which resolves LOADING into
// AUTHENTICATED (after the profile fetch) or ANONYMOUS. Later sign-in/out
// notifications flip between the two resolved states. There is no terminal
// state — the subscription lives until Close tears it down.
package session

import (
	"context"
	"sync"

	"cityguide/portal-service/internal/auth"
)

// State is the holder's position in the session lifecycle.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateLoading       State = "LOADING"
	StateAuthenticated State = "AUTHENTICATED"
	StateAnonymous     State = "ANONYMOUS"
)

// Source is the slice of the auth service the holder depends on.
// *auth.Service satisfies it.
type Source interface {
	OnSessionChange(fn func(*auth.Session)) func()
	Profile(ctx context.Context, userID string) *auth.Profile
}

// Holder is the single owned container for session state. Construct exactly
// one per running application and inject it into consumers — it is not a
// package-level singleton.
type Holder struct {
	src Source

	mu      sync.Mutex
	state   State
	session *auth.Session
	profile *auth.Profile

	unsubscribe func()
}

// NewHolder returns an UNINITIALIZED holder over src.
func NewHolder(src Source) *Holder {
	return &Holder{src: src, state: StateUninitialized}
}

// Start moves to LOADING and subscribes to session changes. The immediate
// replay means the holder has left LOADING by the time Start returns.
// Must be balanced by Close.
func (h *Holder) Start(ctx context.Context) {
	h.mu.Lock()
	h.state = StateLoading
	h.mu.Unlock()

	h.unsubscribe = h.src.OnSessionChange(func(sess *auth.Session) {
		h.apply(ctx, sess)
	})
}

// Close releases the subscription so no callback can fire against a
// torn-down holder. Safe to call more than once.
func (h *Holder) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// apply resolves a session-change notification into holder state. The
// profile fetch happens before the transition, so AUTHENTICATED is only
// observed with its profile already resolved (possibly nil on fault —
// fail-soft).
func (h *Holder) apply(ctx context.Context, sess *auth.Session) {
	if sess == nil {
		h.mu.Lock()
		h.state = StateAnonymous
		h.session = nil
		h.profile = nil
		h.mu.Unlock()
		return
	}

	profile := h.src.Profile(ctx, sess.UserID)

	h.mu.Lock()
	h.state = StateAuthenticated
	h.session = sess
	h.profile = profile
	h.mu.Unlock()
}

// State returns the current lifecycle state.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Session returns the active session, or nil unless AUTHENTICATED.
func (h *Holder) Session() *auth.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// Profile returns the resolved profile, or nil unless AUTHENTICATED (and
// the fetch succeeded).
func (h *Holder) Profile() *auth.Profile {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.profile
}

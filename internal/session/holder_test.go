package session_test

import (
	"context"
	"testing"

	"cityguide/portal-service/internal/auth"
	"cityguide/portal-service/internal/session"
)

// fakeSource drives a Holder through a real broker with canned profiles.
type fakeSource struct {
	broker       *auth.Broker
	profiles     map[string]*auth.Profile
	profileCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		broker:   auth.NewBroker(),
		profiles: make(map[string]*auth.Profile),
	}
}

func (f *fakeSource) OnSessionChange(fn func(*auth.Session)) func() {
	return f.broker.Subscribe(fn)
}

func (f *fakeSource) Profile(ctx context.Context, userID string) *auth.Profile {
	f.profileCalls++
	return f.profiles[userID] // nil models a fail-soft fetch fault
}

func profileFor(userID string) *auth.Profile {
	name := "Ada"
	return &auth.Profile{ID: userID, Email: "a@b.c", FullName: &name}
}

// ── Lifecycle ──────────────────────────────────────────────────────────────

func TestHolder_StartsUninitialized(t *testing.T) {
	h := session.NewHolder(newFakeSource())
	if got := h.State(); got != session.StateUninitialized {
		t.Fatalf("new holder state = %s, want %s", got, session.StateUninitialized)
	}
}

func TestHolder_NoSessionResolvesToAnonymous(t *testing.T) {
	h := session.NewHolder(newFakeSource())
	h.Start(context.Background())
	defer h.Close()

	// The subscription replays immediately, so loading is already resolved.
	if got := h.State(); got != session.StateAnonymous {
		t.Fatalf("state = %s, want %s", got, session.StateAnonymous)
	}
	if h.Session() != nil || h.Profile() != nil {
		t.Error("anonymous holder must carry no session or profile")
	}
}

func TestHolder_ExistingSessionResolvesToAuthenticated(t *testing.T) {
	src := newFakeSource()
	src.profiles["u1"] = profileFor("u1")
	src.broker.Publish(&auth.Session{Token: "tok", UserID: "u1"})

	h := session.NewHolder(src)
	h.Start(context.Background())
	defer h.Close()

	if got := h.State(); got != session.StateAuthenticated {
		t.Fatalf("state = %s, want %s", got, session.StateAuthenticated)
	}
	if h.Profile() == nil || h.Profile().ID != "u1" {
		t.Error("authenticated holder must carry the resolved profile")
	}
}

// ── Sign-in / sign-out transitions ─────────────────────────────────────────

func TestHolder_SignInThenSignOut(t *testing.T) {
	src := newFakeSource()
	src.profiles["u1"] = profileFor("u1")

	h := session.NewHolder(src)
	h.Start(context.Background())
	defer h.Close()

	src.broker.Publish(&auth.Session{Token: "tok", UserID: "u1"})
	if got := h.State(); got != session.StateAuthenticated {
		t.Fatalf("after sign-in: state = %s, want %s", got, session.StateAuthenticated)
	}

	src.broker.Publish(nil)
	if got := h.State(); got != session.StateAnonymous {
		t.Fatalf("after sign-out: state = %s, want %s", got, session.StateAnonymous)
	}
	if h.Session() != nil || h.Profile() != nil {
		t.Error("sign-out must clear session and profile")
	}
}

func TestHolder_ProfileFetchFaultStillAuthenticates(t *testing.T) {
	// Profile fetch is fail-soft: a fault yields nil but the session stands.
	src := newFakeSource()

	h := session.NewHolder(src)
	h.Start(context.Background())
	defer h.Close()

	src.broker.Publish(&auth.Session{Token: "tok", UserID: "unknown"})

	if got := h.State(); got != session.StateAuthenticated {
		t.Fatalf("state = %s, want %s", got, session.StateAuthenticated)
	}
	if h.Profile() != nil {
		t.Error("profile must be nil when the fetch degraded")
	}
}

// ── Teardown ───────────────────────────────────────────────────────────────

func TestHolder_CloseStopsFurtherTransitions(t *testing.T) {
	src := newFakeSource()
	src.profiles["u1"] = profileFor("u1")

	h := session.NewHolder(src)
	h.Start(context.Background())
	h.Close()

	src.broker.Publish(&auth.Session{Token: "tok", UserID: "u1"})

	if got := h.State(); got != session.StateAnonymous {
		t.Fatalf("closed holder transitioned to %s; callbacks must stop at teardown", got)
	}
}

func TestHolder_CloseIsIdempotent(t *testing.T) {
	h := session.NewHolder(newFakeSource())
	h.Start(context.Background())
	h.Close()
	h.Close()
}

func TestHolder_ProfileFetchedOncePerNotification(t *testing.T) {
	src := newFakeSource()
	src.profiles["u1"] = profileFor("u1")

	h := session.NewHolder(src)
	h.Start(context.Background())
	defer h.Close()

	src.broker.Publish(&auth.Session{Token: "tok", UserID: "u1"})

	// One fetch for the sign-in; the anonymous replay at Start fetches nothing.
	if src.profileCalls != 1 {
		t.Errorf("profile fetched %d times, want 1", src.profileCalls)
	}
}

package auth_test

import (
	"testing"

	"cityguide/portal-service/internal/auth"
)

// ── Immediate replay ───────────────────────────────────────────────────────

func TestBroker_SubscribeFiresImmediatelyWithNoSession(t *testing.T) {
	b := auth.NewBroker()

	fired := false
	var got *auth.Session
	unsub := b.Subscribe(func(s *auth.Session) {
		fired = true
		got = s
	})
	defer unsub()

	if !fired {
		t.Fatal("Subscribe must fire synchronously with the current state")
	}
	if got != nil {
		t.Errorf("initial state should be nil (no session), got %+v", got)
	}
}

func TestBroker_SubscribeReplaysCurrentSession(t *testing.T) {
	b := auth.NewBroker()
	sess := &auth.Session{Token: "tok", UserID: "u1"}
	b.Publish(sess)

	var got *auth.Session
	unsub := b.Subscribe(func(s *auth.Session) { got = s })
	defer unsub()

	if got != sess {
		t.Errorf("Subscribe should replay the published session, got %+v", got)
	}
}

// ── Publish delivery ───────────────────────────────────────────────────────

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := auth.NewBroker()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		defer b.Subscribe(func(*auth.Session) { counts[i]++ })()
	}

	b.Publish(&auth.Session{Token: "tok"})
	b.Publish(nil)

	for i, n := range counts {
		// 1 replay + 2 publishes
		if n != 3 {
			t.Errorf("subscriber %d saw %d notifications, want 3", i, n)
		}
	}
}

func TestBroker_CurrentTracksLastPublish(t *testing.T) {
	b := auth.NewBroker()
	if b.Current() != nil {
		t.Fatal("fresh broker must have no current session")
	}

	sess := &auth.Session{Token: "tok"}
	b.Publish(sess)
	if b.Current() != sess {
		t.Error("Current should return the published session")
	}

	b.Publish(nil)
	if b.Current() != nil {
		t.Error("Current should be nil after a signed-out publish")
	}
}

// ── Unsubscribe ────────────────────────────────────────────────────────────

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	b := auth.NewBroker()

	calls := 0
	unsub := b.Subscribe(func(*auth.Session) { calls++ })
	if calls != 1 {
		t.Fatalf("expected the replay call, got %d", calls)
	}

	unsub()
	b.Publish(&auth.Session{Token: "tok"})
	b.Publish(nil)

	if calls != 1 {
		t.Errorf("unsubscribed callback was invoked %d extra time(s)", calls-1)
	}
}

func TestBroker_UnsubscribeIsIdempotent(t *testing.T) {
	b := auth.NewBroker()
	unsub := b.Subscribe(func(*auth.Session) {})

	unsub()
	unsub() // second call must not panic or affect other subscribers

	calls := 0
	defer b.Subscribe(func(*auth.Session) { calls++ })()
	b.Publish(nil)
	if calls != 2 {
		t.Errorf("remaining subscriber saw %d notifications, want 2", calls)
	}
}

func TestBroker_UnsubscribeOnlyAffectsOwnSubscription(t *testing.T) {
	b := auth.NewBroker()

	aCalls, bCalls := 0, 0
	unsubA := b.Subscribe(func(*auth.Session) { aCalls++ })
	defer b.Subscribe(func(*auth.Session) { bCalls++ })()

	unsubA()
	b.Publish(&auth.Session{Token: "tok"})

	if aCalls != 1 {
		t.Errorf("unsubscribed A saw %d notifications, want 1 (replay only)", aCalls)
	}
	if bCalls != 2 {
		t.Errorf("B saw %d notifications, want 2", bCalls)
	}
}

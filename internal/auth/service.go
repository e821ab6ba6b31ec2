package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLen matches the register form's client-side rule.
	minPasswordLen = 6

	// callTimeout bounds every backend round-trip.
	callTimeout = 5 * time.Second

	// sessionChangedChannel carries sign-in/out events for external
	// listeners (SSE forwarders, audit). Delivery is best-effort.
	sessionChangedChannel = "EVENT_SESSION_CHANGED"
)

// Service implements the auth/session operations. All failures a form must
// display come back as *AuthError; profile reads follow the catalog's
// fail-soft pattern instead.
type Service struct {
	store    Store
	sessions SessionStore
	broker   *Broker
	rdb      *redis.Client // event publish only, may be nil
	ttl      time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// NewService wires the identity store, session store and broker together.
func NewService(store Store, sessions SessionStore, broker *Broker, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		broker:   broker,
		rdb:      rdb,
		ttl:      ttl,
		timeout:  callTimeout,
		log:      slog.Default(),
	}
}

// SignUp registers a new identity and opens a session for it.
//
// The confirm-match and minimum-length preconditions run before any backend
// call, in that order — a form round-trips nothing for a typo. The profile
// row is created synchronously with the identity (one transaction).
func (s *Service) SignUp(ctx context.Context, email, password, confirm, fullName string) (*Session, error) {
	if password != confirm {
		return nil, &AuthError{Msg: "passwords do not match"}
	}
	if len(password) < minPasswordLen {
		return nil, &AuthError{Msg: "password must be at least 6 characters"}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &AuthError{Msg: "email is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("password hash failed", "err", err)
		return nil, &AuthError{Msg: "registration is temporarily unavailable"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.store.CreateUser(ctx, email, string(hash), strings.TrimSpace(fullName))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, &AuthError{Msg: "an account with this email already exists"}
		}
		s.log.Error("sign-up failed", "email", email, "err", err)
		return nil, &AuthError{Msg: "registration is temporarily unavailable"}
	}

	return s.openSession(ctx, u)
}

// SignIn exchanges credentials for a session. Unknown email and wrong
// password yield the same message — no account enumeration.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &AuthError{Msg: "invalid email or password"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		s.log.Error("sign-in lookup failed", "email", email, "err", err)
		return nil, &AuthError{Msg: "sign-in is temporarily unavailable"}
	}
	if u == nil {
		return nil, &AuthError{Msg: "invalid email or password"}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, &AuthError{Msg: "invalid email or password"}
	}

	return s.openSession(ctx, u)
}

// SignOut invalidates the session behind token. Idempotent: an unknown or
// empty token is not an error, and the signed-out notification fires either
// way.
func (s *Service) SignOut(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if token != "" {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.Warn("session delete failed", "err", err)
		}
	}
	s.notify(ctx, nil)
}

// Session resolves token to its active session, or nil for an unknown,
// expired or unreadable one. Used once at startup to hydrate the holder.
func (s *Service) Session(ctx context.Context, token string) *Session {
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		s.log.Error("session lookup failed", "err", err)
		return nil
	}
	if sess != nil && time.Now().After(sess.ExpiresAt) {
		return nil
	}
	return sess
}

// Profile fetches the profile row for userID. Fail-soft: faults are logged
// and collapse to nil, mirroring the catalog contract.
func (s *Service) Profile(ctx context.Context, userID string) *Profile {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.store.ProfileByID(ctx, userID)
	if err != nil {
		s.log.Error("profile fetch failed", "userId", userID, "err", err)
		return nil
	}
	return p
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	if userID == "" {
		return nil, &AuthError{Msg: "not signed in"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.store.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, &AuthError{Msg: "profile not found"}
		}
		s.log.Error("profile update failed", "userId", userID, "err", err)
		return nil, &AuthError{Msg: "profile update is temporarily unavailable"}
	}
	return p, nil
}

// OnSessionChange registers fn with the session broker. fn fires
// immediately with the current session state; the returned func
// unsubscribes.
func (s *Service) OnSessionChange(fn func(*Session)) func() {
	return s.broker.Subscribe(fn)
}

// openSession mints a token, persists it and announces the sign-in.
func (s *Service) openSession(ctx context.Context, u *User) (*Session, error) {
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Error("session save failed", "userId", u.ID, "err", err)
		return nil, &AuthError{Msg: "could not create session"}
	}

	s.notify(ctx, sess)
	return sess, nil
}

// notify publishes the new session state to the in-process broker and,
// best-effort, to the Redis event channel.
func (s *Service) notify(ctx context.Context, sess *Session) {
	s.broker.Publish(sess)

	if s.rdb == nil {
		return
	}
	evt := map[string]string{"type": "SESSION_ENDED"}
	if sess != nil {
		evt = map[string]string{"type": "SESSION_STARTED", "userId": sess.UserID}
	}
	payload, _ := json.Marshal(evt)
	if err := s.rdb.Publish(ctx, sessionChangedChannel, payload).Err(); err != nil {
		s.log.Warn("publish session event failed", "err", err)
	}
}

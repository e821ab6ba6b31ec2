// Package auth bridges the portal's identity backend to the rest of the
// application: email/password credential exchange, opaque Redis-backed
// sessions, the one-to-one user profile record, and a subscription point
// for session-change notifications.
package auth

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by store methods when the service started
// without a reachable database.
var ErrUnavailable = errors.New("auth backend not configured")

// ErrEmailTaken reports a sign-up against an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

// ErrProfileNotFound reports an update against a missing profile row.
var ErrProfileNotFound = errors.New("profile not found")

// AuthError carries the human-readable message a login or register form
// displays. Auth faults are the one error kind that crosses the layer
// boundary, precisely because the caller must show them to a person.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// User is an identity row. The password hash never leaves this package.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the mutable user-owned record shown on the profile page.
// It is created in the same transaction as its User and never deleted.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate is a partial update; nil fields keep their current value.
type ProfileUpdate struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

// Session is an active login. The token is the opaque credential clients
// present; expiry is enforced server-side by the session store's TTL.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

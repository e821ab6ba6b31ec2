package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the identity/profile persistence contract.
//
// UserByEmail and ProfileByID return (nil, nil) when no row matches —
// absence is not a fault. CreateUser returns ErrEmailTaken on duplicate
// registration; UpdateProfile returns ErrProfileNotFound when the target
// row is missing.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	ProfileByID(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error)
}

// PGStore implements Store on a pgx connection pool. A nil pool is legal
// and makes every call return ErrUnavailable (degraded startup).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a Store backed by pool (which may be nil).
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const profileCols = `id, email, full_name, bio, avatar_url, created_at, updated_at`

// CreateUser inserts the users row and its profiles row in one transaction,
// so a successful sign-up guarantees the profile exists — there is no
// eventually-consistent window between identity and profile.
func (s *PGStore) CreateUser(ctx context.Context, email, passwordHash, fullName string) (*User, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("createUser begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var u User
	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, created_at`,
		uuid.NewString(), email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("createUser insert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, email, full_name)
		 VALUES ($1, $2, $3)`,
		u.ID, email, nullIfEmpty(fullName),
	); err != nil {
		return nil, fmt.Errorf("createUser insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("createUser commit: %w", err)
	}
	return &u, nil
}

// UserByEmail fetches an identity by email, hash included.
func (s *PGStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}

	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("userByEmail: %w", err)
	}
	return &u, nil
}

// ProfileByID fetches the profile row matching the identity.
func (s *PGStore) ProfileByID(ctx context.Context, userID string) (*Profile, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}

	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE id = $1`,
		userID,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profileByID: %w", err)
	}
	return &p, nil
}

// UpdateProfile applies a partial update keyed by the owning identity.
// Nil fields keep their stored value.
func (s *PGStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}

	var p Profile
	err := s.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET full_name  = COALESCE($1, full_name),
		     bio        = COALESCE($2, bio),
		     updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+profileCols,
		upd.FullName, upd.Bio, userID,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updateProfile: %w", err)
	}
	return &p, nil
}

// isUniqueViolation reports a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnavailable is returned by every store method when the service started
// without a reachable database (missing DATABASE_URL or failed connect).
var ErrUnavailable = errors.New("catalog backend not configured")

// Store is the fallible retrieval contract against the backing database.
//
// List methods return rows ordered by ai_score descending; limit <= 0 means
// the full collection. Get methods return (nil, nil) when the id does not
// exist — absence is a valid outcome, not a fault. Only genuine retrieval
// problems (connectivity, query, malformed rows) come back as errors.
type Store interface {
	ListAttractions(ctx context.Context, limit int) ([]Attraction, error)
	GetAttraction(ctx context.Context, id string) (*Attraction, error)

	ListFood(ctx context.Context, limit int) ([]Food, error)
	GetFood(ctx context.Context, id string) (*Food, error)

	ListRealEstate(ctx context.Context, limit int) ([]RealEstate, error)
	GetRealEstate(ctx context.Context, id string) (*RealEstate, error)

	ListJobs(ctx context.Context, limit int) ([]Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
}

// PGStore implements Store on a pgx connection pool. A nil pool is legal and
// makes every call return ErrUnavailable (degraded startup).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a Store backed by pool (which may be nil).
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// query runs q with an optional LIMIT clause appended.
func (s *PGStore) query(ctx context.Context, q string, limit int) (pgx.Rows, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	if limit > 0 {
		return s.pool.Query(ctx, q+` LIMIT $1`, limit)
	}
	return s.pool.Query(ctx, q)
}

// ─── Attractions ─────────────────────────────────────────────────────────────

const attractionCols = `id, title, description, category, location, image_url, rating, ai_score, created_at, updated_at`

func scanAttraction(row pgx.Row) (*Attraction, error) {
	var a Attraction
	if err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Category, &a.Location,
		&a.ImageURL, &a.Rating, &a.AIScore, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PGStore) ListAttractions(ctx context.Context, limit int) ([]Attraction, error) {
	rows, err := s.query(ctx, `SELECT `+attractionCols+` FROM attractions ORDER BY ai_score DESC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	defer rows.Close()

	items := make([]Attraction, 0)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("list attractions: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (s *PGStore) GetAttraction(ctx context.Context, id string) (*Attraction, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	a, err := scanAttraction(s.pool.QueryRow(ctx, `SELECT `+attractionCols+` FROM attractions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attraction %q: %w", id, err)
	}
	return a, nil
}

// ─── Food ────────────────────────────────────────────────────────────────────

const foodCols = `id, title, description, category, location, image_url, price_range, rating, ai_score, created_at, updated_at`

func scanFood(row pgx.Row) (*Food, error) {
	var f Food
	if err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.Category, &f.Location,
		&f.ImageURL, &f.PriceRange, &f.Rating, &f.AIScore, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *PGStore) ListFood(ctx context.Context, limit int) ([]Food, error) {
	rows, err := s.query(ctx, `SELECT `+foodCols+` FROM food ORDER BY ai_score DESC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list food: %w", err)
	}
	defer rows.Close()

	items := make([]Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("list food: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func (s *PGStore) GetFood(ctx context.Context, id string) (*Food, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	f, err := scanFood(s.pool.QueryRow(ctx, `SELECT `+foodCols+` FROM food WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food %q: %w", id, err)
	}
	return f, nil
}

// ─── Real estate ─────────────────────────────────────────────────────────────

const realEstateCols = `id, title, description, category, location, image_url, price, bedrooms, ai_score, created_at, updated_at`

func scanRealEstate(row pgx.Row) (*RealEstate, error) {
	var r RealEstate
	if err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.Category, &r.Location,
		&r.ImageURL, &r.Price, &r.Bedrooms, &r.AIScore, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PGStore) ListRealEstate(ctx context.Context, limit int) ([]RealEstate, error) {
	rows, err := s.query(ctx, `SELECT `+realEstateCols+` FROM real_estate ORDER BY ai_score DESC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list real_estate: %w", err)
	}
	defer rows.Close()

	items := make([]RealEstate, 0)
	for rows.Next() {
		r, err := scanRealEstate(rows)
		if err != nil {
			return nil, fmt.Errorf("list real_estate: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

func (s *PGStore) GetRealEstate(ctx context.Context, id string) (*RealEstate, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	r, err := scanRealEstate(s.pool.QueryRow(ctx, `SELECT `+realEstateCols+` FROM real_estate WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get real_estate %q: %w", id, err)
	}
	return r, nil
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

const jobCols = `id, title, description, category, company, location, salary_range, image_url, ai_score, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	if err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Category, &j.Company,
		&j.Location, &j.SalaryRange, &j.ImageURL, &j.AIScore, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PGStore) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	rows, err := s.query(ctx, `SELECT `+jobCols+` FROM jobs ORDER BY ai_score DESC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	items := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		items = append(items, *j)
	}
	return items, rows.Err()
}

func (s *PGStore) GetJob(ctx context.Context, id string) (*Job, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	j, err := scanJob(s.pool.QueryRow(ctx, `SELECT `+jobCols+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %q: %w", id, err)
	}
	return j, nil
}

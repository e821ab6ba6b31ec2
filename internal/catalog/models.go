// Package catalog implements the read-only data-access layer for the four
// content collections: attractions, food, real estate and jobs.
//
// Every record carries an ai_score, a precomputed ranking value that is the
// sole sort key for listings. Collections are populated by an external
// import pipeline; this layer never writes to them.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrDecode marks a row that came back from the backend missing a required
// column. The store fails fast on these so that half-filled records never
// reach a caller.
var ErrDecode = errors.New("malformed row")

// Attraction is one row of the attractions collection.
type Attraction struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    *string   `json:"location"`
	ImageURL    *string   `json:"image_url"`
	Rating      float64   `json:"rating"`
	AIScore     float64   `json:"ai_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Food is one row of the food collection.
type Food struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    *string   `json:"location"`
	ImageURL    *string   `json:"image_url"`
	PriceRange  *string   `json:"price_range"`
	Rating      float64   `json:"rating"`
	AIScore     float64   `json:"ai_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RealEstate is one row of the real_estate collection. Price and Bedrooms
// are nullable — not every property discloses them.
type RealEstate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    *string   `json:"location"`
	ImageURL    *string   `json:"image_url"`
	Price       *float64  `json:"price"`
	Bedrooms    *int      `json:"bedrooms"`
	AIScore     float64   `json:"ai_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Job is one row of the jobs collection.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	SalaryRange *string   `json:"salary_range"`
	ImageURL    *string   `json:"image_url"`
	AIScore     float64   `json:"ai_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Recommendations holds the single top-ranked record of each browsable
// collection. A nil slot means that collection was empty (or unreachable).
type Recommendations struct {
	Attraction *Attraction `json:"attraction"`
	Food       *Food       `json:"food"`
	RealEstate *RealEstate `json:"realEstate"`
}

// checkRequired returns an ErrDecode-wrapped error for the first empty
// required column in a scanned row.
func checkRequired(collection, id string, fields [][2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("%w: %s row %q has empty %s", ErrDecode, collection, id, f[0])
		}
	}
	return nil
}

func (a *Attraction) validate() error {
	return checkRequired("attractions", a.ID, [][2]string{
		{"id", a.ID}, {"title", a.Title}, {"description", a.Description}, {"category", a.Category},
	})
}

func (f *Food) validate() error {
	return checkRequired("food", f.ID, [][2]string{
		{"id", f.ID}, {"title", f.Title}, {"description", f.Description}, {"category", f.Category},
	})
}

func (r *RealEstate) validate() error {
	return checkRequired("real_estate", r.ID, [][2]string{
		{"id", r.ID}, {"title", r.Title}, {"description", r.Description}, {"category", r.Category},
	})
}

func (j *Job) validate() error {
	return checkRequired("jobs", j.ID, [][2]string{
		{"id", j.ID}, {"title", j.Title}, {"description", j.Description}, {"category", j.Category},
	})
}

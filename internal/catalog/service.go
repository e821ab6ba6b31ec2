package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// queryTimeout bounds every backend retrieval. The upstream contract left
// calls unbounded; a hung backend must not hang page rendering.
const queryTimeout = 5 * time.Second

// Service is the fail-soft boundary in front of a Store.
//
// Every method logs the underlying fault for operators and returns an empty
// sequence (or nil record) to the caller: a collection that is briefly
// unreachable renders as "nothing found", never as an error page. Callers
// cannot distinguish "does not exist" from "backend unreachable" — both
// cases render identically.
type Service struct {
	store   Store
	timeout time.Duration
	log     *slog.Logger
}

// NewService wraps store in the fail-soft contract.
func NewService(store Store) *Service {
	return &Service{store: store, timeout: queryTimeout, log: slog.Default()}
}

// ListAttractions returns up to limit attractions ordered by descending
// ai_score (limit <= 0 returns the full collection). Never fails: retrieval
// faults are logged and degrade to an empty slice.
func (s *Service) ListAttractions(ctx context.Context, limit int) []Attraction {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.store.ListAttractions(ctx, limit)
	if err != nil {
		s.log.Error("catalog list failed", "collection", "attractions", "err", err)
		return []Attraction{}
	}
	if items == nil {
		items = []Attraction{}
	}
	return items
}

// GetAttractionByID returns the attraction or nil when it does not exist.
// Retrieval faults are logged and also collapse to nil.
func (s *Service) GetAttractionByID(ctx context.Context, id string) *Attraction {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	a, err := s.store.GetAttraction(ctx, id)
	if err != nil {
		s.log.Error("catalog get failed", "collection", "attractions", "id", id, "err", err)
		return nil
	}
	return a
}

// ListFood mirrors ListAttractions for the food collection.
func (s *Service) ListFood(ctx context.Context, limit int) []Food {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.store.ListFood(ctx, limit)
	if err != nil {
		s.log.Error("catalog list failed", "collection", "food", "err", err)
		return []Food{}
	}
	if items == nil {
		items = []Food{}
	}
	return items
}

// GetFoodByID mirrors GetAttractionByID for the food collection.
func (s *Service) GetFoodByID(ctx context.Context, id string) *Food {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	f, err := s.store.GetFood(ctx, id)
	if err != nil {
		s.log.Error("catalog get failed", "collection", "food", "id", id, "err", err)
		return nil
	}
	return f
}

// ListRealEstate mirrors ListAttractions for the real_estate collection.
func (s *Service) ListRealEstate(ctx context.Context, limit int) []RealEstate {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.store.ListRealEstate(ctx, limit)
	if err != nil {
		s.log.Error("catalog list failed", "collection", "real_estate", "err", err)
		return []RealEstate{}
	}
	if items == nil {
		items = []RealEstate{}
	}
	return items
}

// GetRealEstateByID mirrors GetAttractionByID for the real_estate collection.
func (s *Service) GetRealEstateByID(ctx context.Context, id string) *RealEstate {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r, err := s.store.GetRealEstate(ctx, id)
	if err != nil {
		s.log.Error("catalog get failed", "collection", "real_estate", "id", id, "err", err)
		return nil
	}
	return r
}

// ListJobs mirrors ListAttractions for the jobs collection.
func (s *Service) ListJobs(ctx context.Context, limit int) []Job {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.store.ListJobs(ctx, limit)
	if err != nil {
		s.log.Error("catalog list failed", "collection", "jobs", "err", err)
		return []Job{}
	}
	if items == nil {
		items = []Job{}
	}
	return items
}

// GetJobByID mirrors GetAttractionByID for the jobs collection.
func (s *Service) GetJobByID(ctx context.Context, id string) *Job {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	j, err := s.store.GetJob(ctx, id)
	if err != nil {
		s.log.Error("catalog get failed", "collection", "jobs", "id", id, "err", err)
		return nil
	}
	return j
}

// TopRecommendations fetches the single top-ranked attraction, food spot and
// property concurrently and composes them. Branches are isolated: a failing
// or empty collection leaves its slot nil without affecting the other two,
// and no branch cancels its siblings — the join simply waits for all three.
func (s *Service) TopRecommendations(ctx context.Context) Recommendations {
	var rec Recommendations

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if items := s.ListAttractions(ctx, 1); len(items) > 0 {
			rec.Attraction = &items[0]
		}
	}()
	go func() {
		defer wg.Done()
		if items := s.ListFood(ctx, 1); len(items) > 0 {
			rec.Food = &items[0]
		}
	}()
	go func() {
		defer wg.Done()
		if items := s.ListRealEstate(ctx, 1); len(items) > 0 {
			rec.RealEstate = &items[0]
		}
	}()
	wg.Wait()

	return rec
}

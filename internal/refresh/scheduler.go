// Package refresh wires up the cron job that keeps the recommendations
// cache warm, so the home page's top-picks strip is a single Redis read.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"cityguide/portal-service/internal/catalog"
)

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron *cron.Cron
	svc  *catalog.Service
	rdb  *redis.Client
	spec string // cron spec, e.g. "@every 1h"
	ttl  time.Duration
}

// New creates a Scheduler that fires every intervalHours hours. The cache
// TTL is twice the interval, so a stalled job degrades to live computation
// rather than serving stale picks forever.
func New(svc *catalog.Service, rdb *redis.Client, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		rdb:  rdb,
		spec: fmt.Sprintf("@every %dh", intervalHours),
		ttl:  time.Duration(2*intervalHours) * time.Hour,
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is populated without waiting for the first tick.
// A nil Redis client disables the job — the live path still serves.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.rdb == nil {
		log.Println("[refresh] Redis unavailable — recommendations cache disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[refresh] Cron started — spec: %s", s.spec)

	go s.refresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[refresh] Cron stopped")
}

// refresh recomputes the top picks and writes them to the cache key the
// catalog handler reads through. Empty collections still produce a valid
// payload (null slots) — the fail-soft contract extends to the cache.
func (s *Scheduler) refresh(ctx context.Context) {
	rec := s.svc.TopRecommendations(ctx)

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[refresh] marshal error: %v", err)
		return
	}

	if err := s.rdb.Set(ctx, catalog.RecommendationsCacheKey, payload, s.ttl).Err(); err != nil {
		log.Printf("[refresh] cache write failed: %v", err)
		return
	}

	log.Println("[refresh] Recommendations cache updated")
}

// cityguide portal-service
//
// Backend for the city discovery portal. Serves the four content
// collections (attractions, food, real estate, jobs) ranked by ai_score,
// the composite top-recommendations view, and email/password auth with
// Redis-backed sessions and user profiles.
//
// Startup is degradable: a missing DATABASE_URL/REDIS_URL or an unreachable
// backend is logged as a fault and the server comes up anyway — catalog
// routes fail closed to empty results and auth reports a human-readable
// "temporarily unavailable" message.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"cityguide/portal-service/internal/auth"
	"cityguide/portal-service/internal/catalog"
	"cityguide/portal-service/internal/config"
	"cityguide/portal-service/internal/db"
	"cityguide/portal-service/internal/refresh"
	"cityguide/portal-service/internal/session"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, faults := config.Load()
	for _, f := range faults {
		log.Printf("[portal] Configuration fault: %s", f)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		log.Println("[portal] Connecting to PostgreSQL…")
		p, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("[portal] PostgreSQL unavailable: %v — catalog and profiles fail closed", err)
		} else {
			pool = p
			defer pool.Close()
			log.Println("[portal] PostgreSQL connected ✓")
		}
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[portal] Connecting to Redis…")
		r, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[portal] Redis unavailable: %v — sessions and cache disabled", err)
		} else {
			rdb = r
			defer rdb.Close()
			log.Println("[portal] Redis connected ✓")
		}
	}

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := catalog.NewService(catalog.NewPGStore(pool))

	broker := auth.NewBroker()
	authSvc := auth.NewService(
		auth.NewPGStore(pool),
		auth.NewRedisSessionStore(rdb, cfg.SessionTTL),
		broker,
		rdb,
		cfg.SessionTTL,
	)

	// One session holder per running application: init here, teardown on exit.
	holder := session.NewHolder(authSvc)
	holder.Start(ctx)
	defer holder.Close()

	// ── Recommendations refresh job ──────────────────────────────────────────
	sched := refresh.New(catalogSvc, rdb, cfg.RefreshIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Printf("[portal] Refresh scheduler error: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	catalog.NewHandler(catalogSvc, rdb).RegisterRoutes(mux)
	auth.NewHandler(authSvc).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[portal] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[portal] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[portal] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[portal] Shutdown error: %v", err)
	}
	log.Println("[portal] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "portal-service",
		"version": version,
	})
}

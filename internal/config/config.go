// Package config loads runtime configuration from environment variables.
//
// Unlike a fail-fast service, a missing backend endpoint does not abort
// startup: it is reported as a configuration fault, the process keeps
// serving, and every backend call fails closed (empty results) until the
// variable is supplied. The portal must render an empty page, never crash.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the portal service.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	SessionTTL           time.Duration
	RefreshIntervalHours int
}

// Load reads environment variables and returns the Config together with a
// list of configuration faults. Faults are advisory: the caller logs them
// and continues in degraded mode.
func Load() (*Config, []string) {
	var faults []string

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		faults = append(faults, "DATABASE_URL is not set — catalog and profile queries will fail closed")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		faults = append(faults, "REDIS_URL is not set — sessions and the recommendations cache are unavailable")
	}

	port := os.Getenv("PORTAL_PORT")
	if port == "" {
		port = "8080"
	}

	ttlHours := 72
	if s := os.Getenv("SESSION_TTL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			faults = append(faults, fmt.Sprintf("SESSION_TTL_HOURS must be a positive integer, got %q — using default %d", s, ttlHours))
		} else {
			ttlHours = v
		}
	}

	interval := 1
	if s := os.Getenv("REFRESH_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			faults = append(faults, fmt.Sprintf("REFRESH_INTERVAL_HOURS must be a positive integer, got %q — using default %d", s, interval))
		} else {
			interval = v
		}
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		SessionTTL:           time.Duration(ttlHours) * time.Hour,
		RefreshIntervalHours: interval,
	}, faults
}

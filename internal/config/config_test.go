package config_test

import (
	"testing"
	"time"

	"cityguide/portal-service/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "REDIS_URL", "PORTAL_PORT", "SESSION_TTL_HOURS", "REFRESH_INTERVAL_HOURS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingBackendsAreFaultsNotErrors(t *testing.T) {
	clearEnv(t)

	cfg, faults := config.Load()

	if cfg == nil {
		t.Fatal("Load must always return a usable config")
	}
	if len(faults) != 2 {
		t.Fatalf("got %d faults, want 2 (DATABASE_URL, REDIS_URL): %v", len(faults), faults)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, _ := config.Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Errorf("SessionTTL = %v, want 72h", cfg.SessionTTL)
	}
	if cfg.RefreshIntervalHours != 1 {
		t.Errorf("RefreshIntervalHours = %d, want 1", cfg.RefreshIntervalHours)
	}
}

func TestLoad_FullyConfigured(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://portal:pw@localhost:5432/portal")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORTAL_PORT", "9090")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("REFRESH_INTERVAL_HOURS", "6")

	cfg, faults := config.Load()

	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %v", faults)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.RefreshIntervalHours != 6 {
		t.Errorf("RefreshIntervalHours = %d, want 6", cfg.RefreshIntervalHours)
	}
}

func TestLoad_MalformedIntervalFallsBackWithFault(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("REDIS_URL", "redis://x")
	t.Setenv("SESSION_TTL_HOURS", "soon")
	t.Setenv("REFRESH_INTERVAL_HOURS", "-2")

	cfg, faults := config.Load()

	if len(faults) != 2 {
		t.Fatalf("got %d faults, want 2: %v", len(faults), faults)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Errorf("SessionTTL = %v, want default 72h", cfg.SessionTTL)
	}
	if cfg.RefreshIntervalHours != 1 {
		t.Errorf("RefreshIntervalHours = %d, want default 1", cfg.RefreshIntervalHours)
	}
}

package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "STATS_CACHE_TTL", "STATS_SESSION_BADGES", "CORS_ORIGINS", "WORKER_CONCURRENCY"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.DBDriver != "mysql" {
		t.Fatalf("expected mysql driver, got %q", cfg.DBDriver)
	}
	if cfg.StatsCacheTTL != time.Minute {
		t.Fatalf("unexpected cache ttl: %s", cfg.StatsCacheTTL)
	}
	if !reflect.DeepEqual(cfg.StatsSessionBadges, []int{1, 5, 10, 25, 50, 100}) {
		t.Fatalf("unexpected session badges: %v", cfg.StatsSessionBadges)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.WorkerConcurrency != 2 {
		t.Fatalf("unexpected concurrency: %d", cfg.WorkerConcurrency)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "")
	t.Setenv("STATS_STREAK_BADGES", "2, 4")
	t.Setenv("STATS_SESSION_BADGES", "1,x")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("WORKER_CONCURRENCY", "500")

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		t.Fatalf("expected sqlite default dsn")
	}
	if !reflect.DeepEqual(cfg.StatsStreakBadges, []int{2, 4}) {
		t.Fatalf("unexpected streak badges: %v", cfg.StatsStreakBadges)
	}
	// bad entry -> default list
	if len(cfg.StatsSessionBadges) != 6 {
		t.Fatalf("expected default session badges, got %v", cfg.StatsSessionBadges)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.WorkerConcurrency != 50 {
		t.Fatalf("expected concurrency clamp to 50, got %d", cfg.WorkerConcurrency)
	}
}

func TestStatsLocation(t *testing.T) {
	if (Config{StatsTimezone: "Local"}).StatsLocation() != time.Local {
		t.Fatalf("expected local")
	}
	if (Config{StatsTimezone: "Not/AZone"}).StatsLocation() != time.Local {
		t.Fatalf("expected fallback to local")
	}
	loc := (Config{StatsTimezone: "UTC"}).StatsLocation()
	if loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", loc)
	}
}

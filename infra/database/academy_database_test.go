package database

import (
	"testing"
	"time"
)

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	if cfg.MaxConns != 25 {
		t.Errorf("maxConns = %v, want 25", cfg.MaxConns)
	}
	if cfg.MinConns != 5 {
		t.Errorf("minConns = %v, want 5", cfg.MinConns)
	}
	// Short-lived connections for the intake write pattern, matching the
	// sqlx pool settings in bootstrap.
	if cfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("maxConnLifetime = %v, want 30m", cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime != 5*time.Minute {
		t.Errorf("maxConnIdleTime = %v, want 5m", cfg.MaxConnIdleTime)
	}
}

func TestDefaultPostgresConfigEnvOverride(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "40")

	cfg := DefaultPostgresConfig()
	if cfg.MaxConns != 40 {
		t.Errorf("maxConns = %v, want 40 from DB_MAX_CONNS", cfg.MaxConns)
	}
}

func TestDefaultRedisConfig(t *testing.T) {
	cfg := DefaultRedisConfig()

	if cfg.PoolSize != 50 {
		t.Errorf("poolSize = %v, want 50", cfg.PoolSize)
	}
	if cfg.MinIdleConns != 10 {
		t.Errorf("minIdleConns = %v, want 10", cfg.MinIdleConns)
	}

	t.Setenv("REDIS_POOL_SIZE", "80")
	cfg = DefaultRedisConfig()
	if cfg.PoolSize != 80 {
		t.Errorf("poolSize = %v, want 80 from REDIS_POOL_SIZE", cfg.PoolSize)
	}
}

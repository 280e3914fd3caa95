package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.CurrencyPlaces != 0 {
		t.Fatalf("expected default currency places 0, got %d", cfg.CurrencyPlaces)
	}

	if cfg.MigrationsPath != "internal/infrastructure/postgres/migrations" {
		t.Fatalf("expected default migrations path, got %s", cfg.MigrationsPath)
	}

	if cfg.OutboxBatchSize != 100 || cfg.OutboxInterval != 5*time.Second {
		t.Fatalf("expected outbox defaults, got batch=%d interval=%s", cfg.OutboxBatchSize, cfg.OutboxInterval)
	}

	if cfg.OutboxRetention != 168*time.Hour {
		t.Fatalf("expected one week outbox retention, got %s", cfg.OutboxRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("CURRENCY_PLACES", "2")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.CurrencyPlaces != 2 {
		t.Fatalf("expected currency places override, got %d", cfg.CurrencyPlaces)
	}

	if cfg.RateLimitRPS != 5.5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("expected rate limit overrides, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsUnusableValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero max conns", "DATABASE_MAX_CONNS", "0"},
		{"min conns above max", "DATABASE_MIN_CONNS", "30"},
		{"negative currency places", "CURRENCY_PLACES", "-1"},
		{"currency places beyond precision", "CURRENCY_PLACES", "9"},
		{"zero rate limit", "RATE_LIMIT_RPS", "0"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
		{"zero outbox batch", "OUTBOX_BATCH_SIZE", "0"},
		{"zero outbox interval", "OUTBOX_INTERVAL", "0s"},
		{"negative outbox retention", "OUTBOX_RETENTION", "-1h"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			if err == nil {
				t.Fatalf("expected %s=%s to be rejected", tc.key, tc.value)
			}

			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "pos")
	t.Setenv("DB_NAME", "pos")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Port)
	}
	if cfg.DB.Port != "5432" {
		t.Errorf("default db port = %s, want 5432", cfg.DB.Port)
	}
	if cfg.Worker.StockScanInterval != 5*time.Minute {
		t.Errorf("default stock scan interval = %v, want 5m", cfg.Worker.StockScanInterval)
	}
	if cfg.Cache.CatalogTTL != 2*time.Minute {
		t.Errorf("default catalog ttl = %v, want 2m", cfg.Cache.CatalogTTL)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when database config is missing")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "pos")
	t.Setenv("DB_NAME", "pos")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STOCK_SCAN_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

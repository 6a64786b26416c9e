package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("Capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want 1", cfg.RefillTokens)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("TTL = %s, want 10s", cfg.TTL)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")
	t.Setenv("CACHE_TTL", "bogus")
	t.Setenv("CACHE_ENABLED", "off")

	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Error("Enabled = true, want false")
	}
	if len(cfg.Methods) != 2 || !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Errorf("Methods = %v", cfg.Methods)
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL = %s, want default 30s", cfg.TTL)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.DBDSN != "data/tedris.db" {
		t.Errorf("DBDSN = %q", cfg.DBDSN)
	}
	if cfg.BcryptCost != DefaultBcryptCost {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, DefaultBcryptCost)
	}
	if cfg.IsProd() {
		t.Error("IsProd() = true for default env")
	}
}

func TestLoadDriverAliases(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DSN", "postgres://u:p@db.example.com:5432/tedris")
	cases := map[string]string{
		"supabase":   "postgres",
		"PostgreSQL": "postgres",
		"pgx":        "postgres",
		"sqlite3":    "sqlite",
		" MySQL ":    "mysql",
	}
	for in, want := range cases {
		t.Setenv("DB_DRIVER", in)
		if got := Load().DBDriver; got != want {
			t.Errorf("DB_DRIVER=%q: DBDriver = %q, want %q", in, got, want)
		}
	}
}

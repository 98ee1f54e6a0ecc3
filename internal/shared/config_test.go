package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "PORT", "DATABASE_URL", "DATABASE_NAME", "STORE_DRIVER", "CACHE_TTL_SECONDS", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8000" {
		t.Fatalf("http addr: %q", c.HTTPAddr)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl: %s", c.CacheTTL)
	}
	if c.RateLimitRPS != 0 {
		t.Fatalf("rate limit should default to disabled, got %v", c.RateLimitRPS)
	}
	if u, n := c.EnvPresence(); u || n {
		t.Fatalf("expected no database settings, got url=%v name=%v", u, n)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "root:root@tcp(localhost:3306)/")
	t.Setenv("DATABASE_NAME", "hotel")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SEED_WORKERS", "oops")

	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("http addr: %q", c.HTTPAddr)
	}
	if c.StoreDriver != DriverMySQL {
		t.Fatalf("driver: %q", c.StoreDriver)
	}
	if c.SeedWorkers != 3 {
		t.Fatalf("bad integer should fall back to default, got %d", c.SeedWorkers)
	}
	if u, n := c.EnvPresence(); !u || !n {
		t.Fatalf("expected both settings present")
	}
}

func TestInferDriver(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017":       DriverMongo,
		"mongodb+srv://cluster.example":   DriverMongo,
		"user:pw@tcp(db:3306)/hotel":      DriverMySQL,
		"":                                DriverMongo,
	}
	for in, want := range cases {
		if got := InferDriver(in); got != want {
			t.Fatalf("%q: got %s want %s", in, got, want)
		}
	}
}

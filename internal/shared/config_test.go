package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	c := Load()
	if c.StorageDriver != "mysql" || c.HTTPAddr != ":8080" || c.CacheTTL != 900*time.Second {
		t.Fatalf("defaults = %+v", c)
	}
	if c.SearchAnyStatusBlocks {
		t.Fatal("any-status search should be off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("LOGIN_RPS", "2.5")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SEARCH_ANY_STATUS_BLOCKS", "1")
	t.Setenv("BCRYPT_COST", "nope")
	c := Load()
	if c.StorageDriver != "memory" {
		t.Fatalf("driver = %q", c.StorageDriver)
	}
	if c.RedisAddr != "" {
		t.Fatalf("explicit empty REDIS_ADDR should disable redis, got %q", c.RedisAddr)
	}
	if c.SessionTTL != time.Minute || c.LoginRPS != 2.5 || !c.CookieSecure || !c.SearchAnyStatusBlocks {
		t.Fatalf("overrides = %+v", c)
	}
	if c.BcryptCost != 12 {
		t.Fatalf("bad integer should fall back, got %d", c.BcryptCost)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	if c := Load(); c.StorageDriver != "mysql" {
		t.Fatalf("driver = %q", c.StorageDriver)
	}
}

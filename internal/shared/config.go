package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string
	// MetricsAddr runs a second listener for /metrics; empty disables it.
	MetricsAddr string

	StorageDriver string // mysql|memory
	MySQLDSN      string
	RedisAddr     string // empty keeps sessions in memory and disables the cache
	RedisDB       int
	RedisPass     string

	CacheTTL       time.Duration
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	CookieSecure   bool
	LoginRPS       float64
	LoginBurst     int
	BcryptCost     int

	// TrustProxy takes the client address from forwarding headers.
	TrustProxy bool

	SearchAnyStatusBlocks bool

	SeedFile    string
	SeedWorkers int
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		StorageDriver:  strings.ToLower(env("STORAGE_DRIVER", "mysql")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:      envOrEmpty("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:     time.Duration(atoi("SESSION_TTL_SECONDS", 14*24*3600)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		CookieSecure:   boolEnv("COOKIE_SECURE", false),
		TrustProxy:     boolEnv("TRUST_PROXY", false),
		LoginRPS:       floatEnv("LOGIN_RPS", 0.2),
		LoginBurst:     atoi("LOGIN_BURST", 5),
		BcryptCost:     atoi("BCRYPT_COST", 12),

		SearchAnyStatusBlocks: boolEnv("SEARCH_ANY_STATUS_BLOCKS", false),

		SeedFile:    env("SEED_FILE", "seed/catalog.json"),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.StorageDriver != "mysql" && c.StorageDriver != "memory" {
		log.Warn().Str("driver", c.StorageDriver).Msg("unknown STORAGE_DRIVER, using mysql")
		c.StorageDriver = "mysql"
	}
	if c.AppEnv == "prod" && !c.CookieSecure {
		log.Warn().Msg("COOKIE_SECURE is off in prod")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envOrEmpty differs from env in that an explicitly empty value is kept.
func envOrEmpty(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func floatEnv(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// repository is everything the services need from a storage backend.
type repository interface {
	domain.UserRepository
	domain.ProfileRepository
	domain.CatalogRepository
	domain.BookingRepository
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	var repo repository
	switch cfg.StorageDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// cache + sessions
	var (
		cache    domain.Cache
		sessions domain.SessionStore
	)
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cache = redisad.NewCache(rc)
		sessions = redisad.NewSessions(rc)
	} else {
		log.Warn().Msg("REDIS_ADDR is empty; cache disabled, sessions kept in memory")
		sessions = memory.NewSessions()
	}

	// services
	h := &server.Handlers{
		Accounts:      app.NewAccountService(repo, sessions, cfg.SessionTTL, cfg.BcryptCost),
		Profiles:      app.NewProfileService(repo, repo),
		Catalog:       app.NewCatalogService(repo, cache),
		Queries:       app.NewQueryService(repo, cache, cfg.CacheTTL),
		Search:        app.NewSearchService(repo, cfg.SearchAnyStatusBlocks),
		Bookings:      app.NewBookingService(repo, repo, cache),
		LoginLimiter:  server.NewIPLimiter(cfg.LoginRPS, cfg.LoginBurst),
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.CookieSecure,
	}

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New(cfg.RequestTimeout, cfg.TrustProxy)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("storage", cfg.StorageDriver).Msg("starting")
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("stopped")
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var fixture app.SeedCatalog
	if err := json.Unmarshal(raw, &fixture); err != nil {
		log.Fatal().Err(err).Msg("decode seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// the API caches catalog reads; drop stale entries when redis is configured
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cache will not be invalidated")
		} else {
			cache = redisad.NewCache(rc)
		}
	}

	accounts := app.NewAccountService(repo, nil, time.Hour, cfg.BcryptCost)
	seeder := app.NewSeedService(accounts, app.NewCatalogService(repo, cache), repo, repo)

	ownerID, err := seeder.EnsureOwner(ctx, fixture.Owner)
	if err != nil {
		log.Fatal().Err(err).Msg("owner setup failed")
	}
	for k, ts := range map[domain.Kind][]app.SeedType{domain.HotelKind: fixture.HotelTypes, domain.RoomKind: fixture.RoomTypes} {
		n, err := seeder.EnsureTypes(ctx, k, ts)
		if err != nil {
			log.Fatal().Err(err).Str("kind", string(k)).Msg("type setup failed")
		}
		log.Info().Str("kind", string(k)).Int("added", n).Msg("types ready")
	}

	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var (
		wg              sync.WaitGroup
		created, failed atomic.Int64
	)
	for _, h := range fixture.Hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(h app.SeedHotel) {
			defer wg.Done()
			defer sem.Release(1)

			ok, err := seeder.SeedHotel(ctx, ownerID, h)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", h.Name).Err(err).Msg("seed failed")
				return
			}
			if ok {
				created.Add(1)
			}
		}(h)
	}

	wg.Wait()
	log.Info().
		Int64("created", created.Load()).
		Int64("failed", failed.Load()).
		Int("total", len(fixture.Hotels)).
		Msg("seeding completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

// QueryService serves catalog detail reads through the cache.
type QueryService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }
func roomKey(id int64) string { return fmt.Sprintf("room:%d", id) }
func typesKey(k domain.Kind) string { return fmt.Sprintf("types:%s", k) }

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return cached(ctx, s, hotelKey(id), func() (domain.Hotel, error) { return s.repo.GetHotel(ctx, id) })
}

func (s *QueryService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return cached(ctx, s, roomKey(id), func() (domain.Room, error) { return s.repo.GetRoom(ctx, id) })
}

func (s *QueryService) ListTypes(ctx context.Context, k domain.Kind) ([]domain.Type, error) {
	return cached(ctx, s, typesKey(k), func() ([]domain.Type, error) { return s.repo.ListTypes(ctx, k) })
}

func (s *QueryService) ListHotels(ctx context.Context, ownerID *int64) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx, ownerID)
}

func (s *QueryService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *QueryService) GetType(ctx context.Context, k domain.Kind, id int64) (domain.Type, error) {
	return s.repo.GetType(ctx, k, id)
}

func (s *QueryService) ListImages(ctx context.Context, k domain.Kind) ([]domain.Image, error) {
	return s.repo.ListImages(ctx, k)
}

func cached[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	var v T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &v); ok {
			return v, nil
		}
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
	return v, nil
}

// invalidate drops cached views; a failed delete only means a stale read until TTL.
func invalidate(ctx context.Context, c domain.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		_ = c.Del(ctx, k)
	}
}

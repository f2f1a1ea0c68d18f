package redisad_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/domain"
)

func newRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr
}

func TestCache_SetGetDel(t *testing.T) {
	mr := newRedis(t)
	c := redisad.NewCache(redisad.NewClient(mr.Addr(), "", 0))
	ctx := context.Background()

	var miss domain.Room
	ok, err := c.Get(ctx, "room:1", &miss)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Room{ID: 1, Name: "Sea view", PricePerNight: 120.5, HotelCity: "Paris"}
	if err := c.Set(ctx, "room:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("cache:room:1"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v", ttl)
	}

	var out domain.Room
	ok, err = c.Get(ctx, "room:1", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Name != "Sea view" || out.PricePerNight != 120.5 || out.HotelCity != "Paris" {
		t.Fatalf("unexpected value: %+v", out)
	}

	if err := c.Del(ctx, "room:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "room:1", &out)
	if ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_Expires(t *testing.T) {
	mr := newRedis(t)
	c := redisad.NewCache(redisad.NewClient(mr.Addr(), "", 0))
	ctx := context.Background()

	if err := c.Set(ctx, "types:hotel", []domain.Type{{ID: 1, Name: "Resort"}}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var out []domain.Type
	if ok, _ := c.Get(ctx, "types:hotel", &out); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	mr := newRedis(t)
	s := redisad.NewSessions(redisad.NewClient(mr.Addr(), "", 0))
	ctx := context.Background()

	token, err := s.Create(ctx, 42, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	uid, err := s.Lookup(ctx, token)
	if err != nil || uid != 42 {
		t.Fatalf("lookup = %d, %v", uid, err)
	}

	if err := s.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Lookup(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after delete, got %v", err)
	}
}

func TestSessions_Expiry(t *testing.T) {
	mr := newRedis(t)
	s := redisad.NewSessions(redisad.NewClient(mr.Addr(), "", 0))
	ctx := context.Background()

	token, err := s.Create(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Lookup(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after expiry, got %v", err)
	}
	if _, err := s.Lookup(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
}

package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

// ---- fakes ----

// fakeCache keeps JSON copies so cached values cannot alias repo state.
type fakeCache struct {
	store   map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	_, ok := c.store[key]
	return ok
}

// ---- fixtures ----

type world struct {
	store *memory.Store
	owner domain.User
	guest domain.User
	paris domain.Hotel
	rome  domain.Hotel
	room  domain.Room // in paris
	other domain.Room // in rome
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	w := &world{store: memory.New()}

	w.owner = domain.User{Email: "owner@example.com", PasswordHash: "x"}
	mustDo(t, w.store.CreateUser(ctx, &w.owner, domain.GroupTenant))
	w.guest = domain.User{Email: "guest@example.com", PasswordHash: "x"}
	mustDo(t, w.store.CreateUser(ctx, &w.guest, domain.GroupUser))
	mustDo(t, w.store.CreateProfile(ctx, &domain.Profile{UserID: w.guest.ID, Username: "guest"}))

	w.paris = domain.Hotel{OwnerID: w.owner.ID, Name: "Lumiere", Address: "1 Rue", City: "Paris", Country: "France"}
	mustDo(t, w.store.CreateHotel(ctx, &w.paris))
	w.rome = domain.Hotel{OwnerID: w.owner.ID, Name: "Colosseo", Address: "2 Via", City: "Rome", Country: "Italy"}
	mustDo(t, w.store.CreateHotel(ctx, &w.rome))

	w.room = domain.Room{HotelID: w.paris.ID, Name: "P1", PricePerNight: 120, IsAvailable: true}
	mustDo(t, w.store.CreateRoom(ctx, &w.room))
	w.other = domain.Room{HotelID: w.rome.ID, Name: "R1", PricePerNight: 80, IsAvailable: true}
	mustDo(t, w.store.CreateRoom(ctx, &w.other))
	return w
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func day(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

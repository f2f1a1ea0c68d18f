package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func seedFixture() app.SeedCatalog {
	return app.SeedCatalog{
		Owner:      app.SeedOwner{Email: "Owner@Example.com", Password: "pw"},
		HotelTypes: []app.SeedType{{Name: "Boutique"}},
		RoomTypes:  []app.SeedType{{Name: "Single"}, {Name: "Double"}},
		Hotels: []app.SeedHotel{{
			Name: "Lumiere", Address: "1 Rue", City: "Paris", Country: "France", Type: ptr("Boutique"),
			Rooms: []app.SeedRoom{
				{Name: "101", Type: ptr("Single"), PricePerNight: 120},
				{Name: "102", Type: ptr("Double"), PricePerNight: 150, IsAvailable: ptr(false)},
			},
		}},
	}
}

func newSeeder(st *memory.Store) *app.SeedService {
	accounts := app.NewAccountService(st, memory.NewSessions(), time.Hour, bcrypt.MinCost)
	return app.NewSeedService(accounts, app.NewCatalogService(st, nil), st, st)
}

func seedAll(t *testing.T, s *app.SeedService, f app.SeedCatalog) (ownerID int64, created int) {
	t.Helper()
	ctx := context.Background()
	ownerID, err := s.EnsureOwner(ctx, f.Owner)
	mustDo(t, err)
	_, err = s.EnsureTypes(ctx, domain.HotelKind, f.HotelTypes)
	mustDo(t, err)
	_, err = s.EnsureTypes(ctx, domain.RoomKind, f.RoomTypes)
	mustDo(t, err)
	for _, h := range f.Hotels {
		ok, err := s.SeedHotel(ctx, ownerID, h)
		mustDo(t, err)
		if ok {
			created++
		}
	}
	return ownerID, created
}

func TestSeed_CreatesCatalog(t *testing.T) {
	st := memory.New()
	ownerID, created := seedAll(t, newSeeder(st), seedFixture())
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	ctx := context.Background()
	owner, err := st.GetUser(ctx, ownerID)
	mustDo(t, err)
	if owner.Email != "Owner@example.com" || len(owner.Groups) != 1 || owner.Groups[0] != domain.GroupTenant {
		t.Fatalf("owner = %+v", owner)
	}

	hotels, err := st.ListHotels(ctx, &ownerID)
	mustDo(t, err)
	if len(hotels) != 1 || deref(hotels[0].TypeName) != "Boutique" {
		t.Fatalf("hotels = %+v", hotels)
	}
	h, err := st.GetHotel(ctx, hotels[0].ID)
	mustDo(t, err)
	if len(h.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(h.Rooms))
	}
	for _, r := range h.Rooms {
		if r.Name == "102" && (r.IsAvailable || deref(r.TypeName) != "Double") {
			t.Fatalf("room 102 = %+v", r)
		}
	}
}

func TestSeed_Rerun(t *testing.T) {
	st := memory.New()
	s := newSeeder(st)
	first, _ := seedAll(t, s, seedFixture())
	second, created := seedAll(t, s, seedFixture())
	if first != second {
		t.Fatalf("owner changed across runs: %d vs %d", first, second)
	}
	if created != 0 {
		t.Fatalf("rerun created %d hotels", created)
	}
	rooms, err := st.ListRooms(context.Background())
	mustDo(t, err)
	if len(rooms) != 2 {
		t.Fatalf("rooms after rerun = %d, want 2", len(rooms))
	}
}

func TestSeed_UnknownRoomType(t *testing.T) {
	st := memory.New()
	s := newSeeder(st)
	ctx := context.Background()
	ownerID, err := s.EnsureOwner(ctx, app.SeedOwner{Email: "owner@example.com", Password: "pw"})
	mustDo(t, err)

	_, err = s.SeedHotel(ctx, ownerID, app.SeedHotel{
		Name: "X", Address: "A", City: "C", Country: "D",
		Rooms: []app.SeedRoom{{Name: "1", Type: ptr("Penthouse"), PricePerNight: 10}},
	})
	if !errors.Is(err, domain.ErrReference) {
		t.Fatalf("err = %v, want unknown reference", err)
	}
}

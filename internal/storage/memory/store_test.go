package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/domain"
)

var (
	_ domain.UserRepository    = (*Store)(nil)
	_ domain.ProfileRepository = (*Store)(nil)
	_ domain.CatalogRepository = (*Store)(nil)
	_ domain.BookingRepository = (*Store)(nil)
	_ domain.SessionStore      = (*Sessions)(nil)
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedRoom(t *testing.T, s *Store) (domain.User, domain.Hotel, domain.Room) {
	t.Helper()
	ctx := context.Background()
	u := domain.User{Email: "a@example.com"}
	if err := s.CreateUser(ctx, &u, domain.GroupTenant); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	h := domain.Hotel{OwnerID: u.ID, Name: "Lumiere", City: "Paris", Country: "France", Address: "1 Rue"}
	if err := s.CreateHotel(ctx, &h); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	r := domain.Room{HotelID: h.ID, Name: "P1", PricePerNight: 100}
	if err := s.CreateRoom(ctx, &r); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	return u, h, r
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := New()
	u, _, r := seedRoom(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx domain.BookingTx) error {
		b := domain.Booking{UserID: u.ID, RoomID: r.ID, StartDate: day("2024-01-01"), EndDate: day("2024-01-03"), Status: "active"}
		if err := tx.InsertBooking(ctx, &b); err != nil {
			return err
		}
		if _, err := tx.IncrementRoomBookings(ctx, r.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	bs, _ := s.ListBookings(ctx, domain.BookingQuery{})
	if len(bs) != 0 {
		t.Fatalf("bookings after rollback = %d, want 0", len(bs))
	}
	got, _ := s.GetRoom(ctx, r.ID)
	if got.TotalBookings != 0 {
		t.Fatalf("total_bookings after rollback = %d, want 0", got.TotalBookings)
	}
}

func TestIncrementProfileBookings_MissingProfile(t *testing.T) {
	s := New()
	u, _, _ := seedRoom(t, s)
	ctx := context.Background()
	_ = s.WithinTx(ctx, func(tx domain.BookingTx) error {
		ok, err := tx.IncrementProfileBookings(ctx, u.ID)
		if err != nil || ok {
			t.Fatalf("ok=%v err=%v, want false,nil", ok, err)
		}
		return nil
	})
}

func TestSearchRooms_WindowAndStatus(t *testing.T) {
	s := New()
	u, _, r := seedRoom(t, s)
	ctx := context.Background()
	if err := s.WithinTx(ctx, func(tx domain.BookingTx) error {
		b := domain.Booking{UserID: u.ID, RoomID: r.ID, StartDate: day("2024-01-10"), EndDate: day("2024-01-15"), Status: "cancelled"}
		return tx.InsertBooking(ctx, &b)
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	w := &domain.DateWindow{Start: day("2024-01-12"), End: day("2024-01-20")}
	blocking, _ := s.SearchRooms(ctx, domain.RoomFilter{Window: w, BlockingStatuses: domain.BlockingStatuses})
	if len(blocking) != 1 {
		t.Fatalf("cancelled booking should not block: got %d rooms", len(blocking))
	}
	all, _ := s.SearchRooms(ctx, domain.RoomFilter{Window: w})
	if len(all) != 0 {
		t.Fatalf("any-status filter should hide the room: got %d rooms", len(all))
	}
}

func TestSearchRooms_Sort(t *testing.T) {
	s := New()
	_, h, _ := seedRoom(t, s)
	ctx := context.Background()
	for _, p := range []float64{50, 300} {
		r := domain.Room{HotelID: h.ID, Name: "x", PricePerNight: p}
		if err := s.CreateRoom(ctx, &r); err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
	}
	rs, _ := s.SearchRooms(ctx, domain.RoomFilter{Sort: &domain.RoomSort{Field: "price_per_night", Desc: true}})
	if len(rs) != 3 || rs[0].PricePerNight != 300 || rs[2].PricePerNight != 50 {
		t.Fatalf("unexpected order: %+v", rs)
	}
}

func TestDeleteHotel_Cascades(t *testing.T) {
	s := New()
	_, h, r := seedRoom(t, s)
	ctx := context.Background()
	img := domain.Image{ParentID: r.ID, Path: "rooms/p1.jpg"}
	if err := s.AddImage(ctx, domain.RoomKind, &img); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if err := s.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if _, err := s.GetRoom(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("room err = %v, want not found", err)
	}
	imgs, _ := s.ListImages(ctx, domain.RoomKind)
	if len(imgs) != 0 {
		t.Fatalf("images left = %d", len(imgs))
	}
}

func TestCreateUser_UnknownGroup(t *testing.T) {
	s := New()
	u := domain.User{Email: "x@example.com"}
	err := s.CreateUser(context.Background(), &u, "Admins")
	if !errors.Is(err, domain.ErrReference) {
		t.Fatalf("err = %v, want reference", err)
	}
	if us, _ := s.ListUsers(context.Background()); len(us) != 0 {
		t.Fatalf("users = %d, want 0", len(us))
	}
}

func TestSessions_Expiry(t *testing.T) {
	ss := NewSessions()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	ctx := context.Background()

	tok, err := ss.Create(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id, err := ss.Lookup(ctx, tok); err != nil || id != 7 {
		t.Fatalf("Lookup = %d, %v", id, err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := ss.Lookup(ctx, tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired Lookup err = %v", err)
	}
}

package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"hotel_booking/internal/domain"
)

// WithinTx runs fn with booking writers serialized. Writes made through the
// tx are undone if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &bookingTx{s: s}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

type bookingTx struct {
	s    *Store
	undo []func()
}

func (t *bookingTx) LockRoom(_ context.Context, roomID int64) (domain.Room, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	r, ok := t.s.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (t *bookingTx) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return t.s.GetBooking(ctx, id)
}

func (t *bookingTx) HasOverlap(_ context.Context, q domain.OverlapQuery) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.booked(q.RoomID, domain.DateWindow{Start: q.Start, End: q.End}, q.Statuses, q.ExcludeID), nil
}

func (t *bookingTx) InsertBooking(_ context.Context, b *domain.Booking) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.rooms[b.RoomID]; !ok {
		return domain.UnknownRef("room_id", "room_not_found", "room does not exist")
	}
	if _, ok := t.s.users[b.UserID]; !ok {
		return domain.UnknownRef("user_id", "user_not_found", "user does not exist")
	}
	now := time.Now().UTC()
	b.ID = t.s.id("bookings")
	b.CreatedAt, b.UpdatedAt = now, now
	b.Room, b.User = nil, nil
	t.s.bookings[b.ID] = *b
	id := b.ID
	t.undo = append(t.undo, func() { delete(t.s.bookings, id) })
	return nil
}

func (t *bookingTx) UpdateBooking(_ context.Context, b domain.Booking) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	prev, ok := t.s.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	b.Room, b.User = nil, nil
	t.s.bookings[b.ID] = b
	t.undo = append(t.undo, func() { t.s.bookings[prev.ID] = prev })
	return nil
}

func (t *bookingTx) IncrementRoomBookings(_ context.Context, roomID int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	r, ok := t.s.rooms[roomID]
	if !ok {
		return false, nil
	}
	r.TotalBookings++
	t.s.rooms[roomID] = r
	t.undo = append(t.undo, func() {
		if r, ok := t.s.rooms[roomID]; ok {
			r.TotalBookings--
			t.s.rooms[roomID] = r
		}
	})
	return true, nil
}

func (t *bookingTx) IncrementProfileBookings(_ context.Context, userID int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, p := range t.s.profiles {
		if p.UserID != userID {
			continue
		}
		p.TotalBookings++
		t.s.profiles[id] = p
		t.undo = append(t.undo, func() {
			if p, ok := t.s.profiles[id]; ok {
				p.TotalBookings--
				t.s.profiles[id] = p
			}
		})
		return true, nil
	}
	return false, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

// ListBookings returns bookings newest first with room and booker attached.
func (s *Store) ListBookings(_ context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if q.UserID != nil && b.UserID != *q.UserID {
			continue
		}
		r, ok := s.rooms[b.RoomID]
		if !ok {
			continue
		}
		if q.OwnerID != nil && s.hotels[r.HotelID].OwnerID != *q.OwnerID {
			continue
		}
		rv := s.roomView(r)
		rv.Images = nil
		u := cloneUser(s.users[b.UserID])
		b.Room, b.User = &rv, &u
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b domain.Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) DeleteBooking(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

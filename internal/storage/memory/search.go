package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"hotel_booking/internal/domain"
)

func (s *Store) hotelMatches(h domain.Hotel, f domain.HotelFilter) bool {
	typeName := ""
	if n := s.typeName(domain.HotelKind, h.TypeID); n != nil {
		typeName = *n
	}
	if f.TypeName != "" && typeName == "" {
		return false
	}
	return domain.ContainsFold(h.Name, f.Name) &&
		domain.ContainsFold(typeName, f.TypeName) &&
		domain.ContainsFold(h.Country, f.Country) &&
		domain.ContainsFold(h.City, f.City)
}

func (s *Store) SearchHotels(_ context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Hotel
	for _, h := range sortedValues(s.hotels) {
		if s.hotelMatches(h, f) {
			out = append(out, s.hotelView(h, true))
		}
	}
	return out, nil
}

// booked reports whether a booking in statuses (all when empty) overlaps w.
func (s *Store) booked(roomID int64, w domain.DateWindow, statuses []string, excludeID int64) bool {
	for _, b := range s.bookings {
		if b.RoomID != roomID || b.ID == excludeID {
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, b.Status) {
			continue
		}
		if domain.Overlaps(b.StartDate, b.EndDate, w.Start, w.End) {
			return true
		}
	}
	return false
}

func (s *Store) SearchRooms(_ context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Room
	for _, r := range sortedValues(s.rooms) {
		h, ok := s.hotels[r.HotelID]
		if !ok || !s.hotelMatches(h, f.Hotel) {
			continue
		}
		v := s.roomView(r)
		typeName := ""
		if v.TypeName != nil {
			typeName = *v.TypeName
		}
		switch {
		case !domain.ContainsFold(v.Name, f.Name),
			f.TypeName != "" && (typeName == "" || !domain.ContainsFold(typeName, f.TypeName)),
			f.PriceMin != nil && v.PricePerNight < *f.PriceMin,
			f.PriceMax != nil && v.PricePerNight > *f.PriceMax,
			f.Window != nil && s.booked(v.ID, *f.Window, f.BlockingStatuses, 0):
			continue
		}
		out = append(out, v)
	}
	if f.Sort != nil {
		slices.SortStableFunc(out, roomOrder(*f.Sort))
	}
	return out, nil
}

func roomOrder(o domain.RoomSort) func(a, b domain.Room) int {
	return func(a, b domain.Room) int {
		var c int
		switch o.Field {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "price_per_night":
			c = cmp.Compare(a.PricePerNight, b.PricePerNight)
		case "is_available":
			c = cmp.Compare(boolRank(a.IsAvailable), boolRank(b.IsAvailable))
		case "total_bookings":
			c = cmp.Compare(a.TotalBookings, b.TotalBookings)
		case "hotel":
			c = cmp.Compare(a.HotelID, b.HotelID)
		case "type":
			c = strings.Compare(deref(a.TypeName), deref(b.TypeName))
		default:
			c = cmp.Compare(a.ID, b.ID)
		}
		if o.Desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

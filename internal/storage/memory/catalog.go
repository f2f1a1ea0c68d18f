package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

// ---- types ----

func (s *Store) typeNamed(k domain.Kind, name string) (domain.Type, bool) {
	for _, t := range s.types[k] {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return domain.Type{}, false
}

func (s *Store) ListTypes(_ context.Context, k domain.Kind) ([]domain.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := sortedValues(s.types[k])
	slices.SortStableFunc(ts, func(a, b domain.Type) int { return strings.Compare(a.Name, b.Name) })
	return ts, nil
}

func (s *Store) GetType(_ context.Context, k domain.Kind, id int64) (domain.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[k][id]
	if !ok {
		return domain.Type{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *Store) GetTypeByName(_ context.Context, k domain.Kind, name string) (domain.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.typeNamed(k, name)
	if !ok {
		return domain.Type{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateType(_ context.Context, k domain.Kind, t *domain.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.typeNamed(k, t.Name); dup {
		return domain.Conflict("name", "type_exists", fmt.Sprintf("%s type '%s' already exists", k, t.Name))
	}
	t.ID = s.id(string(k) + "_types")
	s.types[k][t.ID] = *t
	return nil
}

func (s *Store) UpdateType(_ context.Context, k domain.Kind, t domain.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[k][t.ID]; !ok {
		return domain.ErrNotFound
	}
	if other, dup := s.typeNamed(k, t.Name); dup && other.ID != t.ID {
		return domain.Conflict("name", "type_exists", fmt.Sprintf("%s type '%s' already exists", k, t.Name))
	}
	s.types[k][t.ID] = t
	return nil
}

// DeleteType clears the type on hotels or rooms that referenced it.
func (s *Store) DeleteType(_ context.Context, k domain.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[k][id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.types[k], id)
	if k == domain.HotelKind {
		for hid, h := range s.hotels {
			if h.TypeID != nil && *h.TypeID == id {
				h.TypeID = nil
				s.hotels[hid] = h
			}
		}
		return nil
	}
	for rid, r := range s.rooms {
		if r.TypeID != nil && *r.TypeID == id {
			r.TypeID = nil
			s.rooms[rid] = r
		}
	}
	return nil
}

func (s *Store) typeName(k domain.Kind, id *int64) *string {
	if id == nil {
		return nil
	}
	t, ok := s.types[k][*id]
	if !ok {
		return nil
	}
	name := t.Name
	return &name
}

// ---- hotels ----

// hotelView resolves the type name; withChildren also attaches rooms and images.
func (s *Store) hotelView(h domain.Hotel, withChildren bool) domain.Hotel {
	h.TypeName = s.typeName(domain.HotelKind, h.TypeID)
	h.Rooms, h.Images = nil, nil
	if !withChildren {
		return h
	}
	h.Rooms = []domain.Room{}
	for _, r := range sortedValues(s.rooms) {
		if r.HotelID == h.ID {
			h.Rooms = append(h.Rooms, s.roomView(r))
		}
	}
	h.Images = s.imagesOf(domain.HotelKind, h.ID)
	return h
}

func (s *Store) CreateHotel(_ context.Context, h *domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[h.OwnerID]; !ok {
		return domain.UnknownRef("owner_id", "user_not_found", "owner does not exist")
	}
	h.ID = s.id("hotels")
	stored := *h
	stored.TypeName, stored.Rooms, stored.Images = nil, nil, nil
	s.hotels[h.ID] = stored
	return nil
}

func (s *Store) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return s.hotelView(h, true), nil
}

func (s *Store) ListHotels(_ context.Context, ownerID *int64) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Hotel
	for _, h := range sortedValues(s.hotels) {
		if ownerID != nil && h.OwnerID != *ownerID {
			continue
		}
		out = append(out, s.hotelView(h, false))
	}
	return out, nil
}

func (s *Store) UpdateHotel(_ context.Context, h domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.hotels[h.ID]
	if !ok {
		return domain.ErrNotFound
	}
	h.OwnerID = cur.OwnerID
	h.TypeName, h.Rooms, h.Images = nil, nil, nil
	s.hotels[h.ID] = h
	return nil
}

func (s *Store) DeleteHotel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteHotel(id)
	return nil
}

// deleteHotel cascades to rooms and images. Callers hold mu.
func (s *Store) deleteHotel(id int64) {
	delete(s.hotels, id)
	for rid, r := range s.rooms {
		if r.HotelID == id {
			s.deleteRoom(rid)
		}
	}
	for iid, img := range s.images[domain.HotelKind] {
		if img.ParentID == id {
			delete(s.images[domain.HotelKind], iid)
		}
	}
}

// ---- rooms ----

// roomView fills the type name, hotel fields and images of a stored room.
func (s *Store) roomView(r domain.Room) domain.Room {
	r.TypeName = s.typeName(domain.RoomKind, r.TypeID)
	if h, ok := s.hotels[r.HotelID]; ok {
		r.HotelName, r.HotelAddress, r.HotelCity, r.HotelCountry = h.Name, h.Address, h.City, h.Country
		r.HotelType = s.typeName(domain.HotelKind, h.TypeID)
	}
	r.Images = s.imagesOf(domain.RoomKind, r.ID)
	return r
}

func (s *Store) CreateRoom(_ context.Context, r *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[r.HotelID]; !ok {
		return domain.UnknownRef("hotel", "hotel_not_found", fmt.Sprintf("hotel %d does not exist", r.HotelID))
	}
	r.ID = s.id("rooms")
	r.TotalBookings = 0
	s.rooms[r.ID] = bareRoom(*r)
	return nil
}

func bareRoom(r domain.Room) domain.Room {
	return domain.Room{
		ID:            r.ID,
		HotelID:       r.HotelID,
		TypeID:        r.TypeID,
		Name:          r.Name,
		PricePerNight: r.PricePerNight,
		IsAvailable:   r.IsAvailable,
		PreviewImage:  r.PreviewImage,
		TotalBookings: r.TotalBookings,
	}
}

func (s *Store) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return s.roomView(r), nil
}

func (s *Store) ListRooms(_ context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Room
	for _, r := range sortedValues(s.rooms) {
		out = append(out, s.roomView(r))
	}
	return out, nil
}

// UpdateRoom keeps the stored booking counter.
func (s *Store) UpdateRoom(_ context.Context, r domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rooms[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.hotels[r.HotelID]; !ok {
		return domain.UnknownRef("hotel", "hotel_not_found", fmt.Sprintf("hotel %d does not exist", r.HotelID))
	}
	r.TotalBookings = cur.TotalBookings
	s.rooms[r.ID] = bareRoom(r)
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteRoom(id)
	return nil
}

// deleteRoom cascades to bookings and images. Callers hold mu.
func (s *Store) deleteRoom(id int64) {
	delete(s.rooms, id)
	for bid, b := range s.bookings {
		if b.RoomID == id {
			delete(s.bookings, bid)
		}
	}
	for iid, img := range s.images[domain.RoomKind] {
		if img.ParentID == id {
			delete(s.images[domain.RoomKind], iid)
		}
	}
}

// ---- images ----

func (s *Store) AddImage(_ context.Context, k domain.Kind, img *domain.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img.ID = s.id(string(k) + "_images")
	img.UploadedAt = time.Now().UTC()
	s.images[k][img.ID] = *img
	return nil
}

func (s *Store) ListImages(_ context.Context, k domain.Kind) ([]domain.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.images[k]), nil
}

func (s *Store) imagesOf(k domain.Kind, parentID int64) []domain.Image {
	out := []domain.Image{}
	for _, img := range sortedValues(s.images[k]) {
		if img.ParentID == parentID {
			out = append(out, img)
		}
	}
	return out
}

func (s *Store) DeleteImage(_ context.Context, k domain.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[k][id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.images[k], id)
	return nil
}

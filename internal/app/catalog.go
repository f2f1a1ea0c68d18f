package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// CatalogService owns catalog writes and keeps the read cache coherent.
type CatalogService struct {
	repo  domain.CatalogRepository
	cache domain.Cache
}

func NewCatalogService(r domain.CatalogRepository, c domain.Cache) *CatalogService {
	return &CatalogService{repo: r, cache: c}
}

// ---- types ----

func (s *CatalogService) CreateType(ctx context.Context, k domain.Kind, f domain.TypeFields) (domain.Type, error) {
	if err := f.Validate(true); err != nil {
		return domain.Type{}, err
	}
	var t domain.Type
	f.Apply(&t)
	if err := s.repo.CreateType(ctx, k, &t); err != nil {
		return domain.Type{}, err
	}
	invalidate(ctx, s.cache, typesKey(k))
	return t, nil
}

func (s *CatalogService) UpdateType(ctx context.Context, k domain.Kind, id int64, f domain.TypeFields) (domain.Type, error) {
	if err := f.Validate(false); err != nil {
		return domain.Type{}, err
	}
	t, err := s.repo.GetType(ctx, k, id)
	if err != nil {
		return domain.Type{}, err
	}
	f.Apply(&t)
	if err := s.repo.UpdateType(ctx, k, t); err != nil {
		return domain.Type{}, err
	}
	invalidate(ctx, s.cache, s.typeViewKeys(ctx, k, id)...)
	return t, nil
}

// DeleteType removes a type; hotels or rooms referencing it keep existing with no type.
func (s *CatalogService) DeleteType(ctx context.Context, k domain.Kind, id int64) error {
	// collected first: the delete nulls the references
	keys := s.typeViewKeys(ctx, k, id)
	if err := s.repo.DeleteType(ctx, k, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, keys...)
	return nil
}

// typeViewKeys lists the cache keys whose views embed the name of type id:
// the type list, plus every hotel and room view showing it. Hotel views embed
// their rooms and room views embed the hotel type, so both sides are covered.
func (s *CatalogService) typeViewKeys(ctx context.Context, k domain.Kind, id int64) []string {
	keys := []string{typesKey(k)}
	if s.cache == nil {
		return keys
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(k)).Int64("type_id", id).Msg("type change: cannot list rooms, cached views may be stale")
		return keys
	}

	hotels := map[int64]bool{}
	if k == domain.HotelKind {
		hs, err := s.repo.ListHotels(ctx, nil)
		if err != nil {
			log.Warn().Err(err).Int64("type_id", id).Msg("type change: cannot list hotels, cached views may be stale")
			return keys
		}
		for _, h := range hs {
			if h.TypeID != nil && *h.TypeID == id {
				hotels[h.ID] = true
			}
		}
	}
	for _, r := range rooms {
		switch {
		case k == domain.HotelKind && hotels[r.HotelID]:
			keys = append(keys, roomKey(r.ID))
		case k == domain.RoomKind && r.TypeID != nil && *r.TypeID == id:
			keys = append(keys, roomKey(r.ID))
			hotels[r.HotelID] = true
		}
	}
	for hid := range hotels {
		keys = append(keys, hotelKey(hid))
	}
	return keys
}

// resolveType maps a type name to its id; nil or empty clears the type.
func (s *CatalogService) resolveType(ctx context.Context, k domain.Kind, name *string) (*int64, *string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, nil, nil
	}
	t, err := s.repo.GetTypeByName(ctx, k, strings.TrimSpace(*name))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.UnknownRef("type", "type_not_found", fmt.Sprintf("%s type '%s' does not exist", k, *name))
	}
	if err != nil {
		return nil, nil, err
	}
	return &t.ID, &t.Name, nil
}

// ---- hotels ----

func (s *CatalogService) CreateHotel(ctx context.Context, ownerID int64, f domain.HotelFields) (domain.Hotel, error) {
	if err := f.Validate(true); err != nil {
		return domain.Hotel{}, err
	}
	h := domain.Hotel{OwnerID: ownerID}
	f.Apply(&h)
	var err error
	if h.TypeID, h.TypeName, err = s.resolveType(ctx, domain.HotelKind, f.Type); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.repo.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, err
	}
	log.Info().Int64("hotel_id", h.ID).Int64("owner_id", ownerID).Msg("hotel created")
	return h, nil
}

// ownedHotel loads a hotel and checks actorID owns it.
func (s *CatalogService) ownedHotel(ctx context.Context, actorID, id int64) (domain.Hotel, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if h.OwnerID != actorID {
		return domain.Hotel{}, domain.ErrForbidden
	}
	return h, nil
}

func (s *CatalogService) UpdateHotel(ctx context.Context, actorID, id int64, f domain.HotelFields) (domain.Hotel, error) {
	if err := f.Validate(false); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.ownedHotel(ctx, actorID, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	f.Apply(&h)
	if f.Type != nil {
		if h.TypeID, h.TypeName, err = s.resolveType(ctx, domain.HotelKind, f.Type); err != nil {
			return domain.Hotel{}, err
		}
	}
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateHotel(ctx, h)
	return s.repo.GetHotel(ctx, id)
}

func (s *CatalogService) DeleteHotel(ctx context.Context, actorID, id int64) error {
	h, err := s.ownedHotel(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidateHotel(ctx, h)
	log.Info().Int64("hotel_id", id).Msg("hotel deleted")
	return nil
}

// invalidateHotel drops the hotel view and the views of its rooms, which embed hotel fields.
func (s *CatalogService) invalidateHotel(ctx context.Context, h domain.Hotel) {
	keys := []string{hotelKey(h.ID)}
	for _, r := range h.Rooms {
		keys = append(keys, roomKey(r.ID))
	}
	invalidate(ctx, s.cache, keys...)
}

// ---- rooms ----

func (s *CatalogService) CreateRoom(ctx context.Context, actorID int64, f domain.RoomFields) (domain.Room, error) {
	if err := f.Validate(true); err != nil {
		return domain.Room{}, err
	}
	h, err := s.repo.GetHotel(ctx, *f.HotelID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Room{}, domain.UnknownRef("hotel", "hotel_not_found", fmt.Sprintf("hotel %d does not exist", *f.HotelID))
	}
	if err != nil {
		return domain.Room{}, err
	}
	if h.OwnerID != actorID {
		return domain.Room{}, domain.ErrForbidden
	}

	r := domain.Room{IsAvailable: true}
	f.Apply(&r)
	if r.TypeID, r.TypeName, err = s.resolveType(ctx, domain.RoomKind, f.Type); err != nil {
		return domain.Room{}, err
	}
	if err := s.repo.CreateRoom(ctx, &r); err != nil {
		return domain.Room{}, err
	}
	invalidate(ctx, s.cache, hotelKey(h.ID))
	log.Info().Int64("room_id", r.ID).Int64("hotel_id", h.ID).Msg("room created")
	return s.repo.GetRoom(ctx, r.ID)
}

func (s *CatalogService) ownedRoom(ctx context.Context, actorID, id int64) (domain.Room, error) {
	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	h, err := s.repo.GetHotel(ctx, r.HotelID)
	if err != nil {
		return domain.Room{}, err
	}
	if h.OwnerID != actorID {
		return domain.Room{}, domain.ErrForbidden
	}
	return r, nil
}

func (s *CatalogService) UpdateRoom(ctx context.Context, actorID, id int64, f domain.RoomFields) (domain.Room, error) {
	if err := f.Validate(false); err != nil {
		return domain.Room{}, err
	}
	r, err := s.ownedRoom(ctx, actorID, id)
	if err != nil {
		return domain.Room{}, err
	}
	oldHotel := r.HotelID
	if f.HotelID != nil && *f.HotelID != oldHotel {
		if _, err := s.ownedHotel(ctx, actorID, *f.HotelID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Room{}, domain.UnknownRef("hotel", "hotel_not_found", fmt.Sprintf("hotel %d does not exist", *f.HotelID))
			}
			return domain.Room{}, err
		}
	}
	f.Apply(&r)
	if f.Type != nil {
		if r.TypeID, r.TypeName, err = s.resolveType(ctx, domain.RoomKind, f.Type); err != nil {
			return domain.Room{}, err
		}
	}
	if err := s.repo.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	invalidate(ctx, s.cache, roomKey(id), hotelKey(oldHotel), hotelKey(r.HotelID))
	return s.repo.GetRoom(ctx, id)
}

func (s *CatalogService) DeleteRoom(ctx context.Context, actorID, id int64) error {
	r, err := s.ownedRoom(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, roomKey(id), hotelKey(r.HotelID))
	return nil
}

// ---- images ----

// AddImage records an image path for a hotel or room.
func (s *CatalogService) AddImage(ctx context.Context, k domain.Kind, parentID int64, path string) (domain.Image, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Image{}, domain.Invalid("image", "image_required", "image is required")
	}
	var key string
	switch k {
	case domain.HotelKind:
		if _, err := s.repo.GetHotel(ctx, parentID); err != nil {
			return domain.Image{}, parentErr(err, "hotel", parentID)
		}
		key = hotelKey(parentID)
	case domain.RoomKind:
		r, err := s.repo.GetRoom(ctx, parentID)
		if err != nil {
			return domain.Image{}, parentErr(err, "room", parentID)
		}
		key = roomKey(parentID)
		invalidate(ctx, s.cache, hotelKey(r.HotelID))
	}
	img := domain.Image{ParentID: parentID, Path: strings.TrimSpace(path)}
	if err := s.repo.AddImage(ctx, k, &img); err != nil {
		return domain.Image{}, err
	}
	invalidate(ctx, s.cache, key)
	return img, nil
}

func (s *CatalogService) DeleteImage(ctx context.Context, k domain.Kind, id int64) error {
	imgs, err := s.repo.ListImages(ctx, k)
	if err != nil {
		return err
	}
	parent := int64(-1)
	for _, img := range imgs {
		if img.ID == id {
			parent = img.ParentID
		}
	}
	if parent < 0 {
		return domain.ErrNotFound
	}
	if err := s.repo.DeleteImage(ctx, k, id); err != nil {
		return err
	}
	if k == domain.RoomKind {
		keys := []string{roomKey(parent)}
		if r, err := s.repo.GetRoom(ctx, parent); err == nil {
			keys = append(keys, hotelKey(r.HotelID))
		}
		invalidate(ctx, s.cache, keys...)
		return nil
	}
	invalidate(ctx, s.cache, hotelKey(parent))
	return nil
}

func parentErr(err error, field string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UnknownRef(field, field+"_not_found", fmt.Sprintf("%s %d does not exist", field, id))
	}
	return err
}

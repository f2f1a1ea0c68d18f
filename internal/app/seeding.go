package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// SeedCatalog is the fixture cmd/seeder loads.
type SeedCatalog struct {
	Owner      SeedOwner   `json:"owner"`
	HotelTypes []SeedType  `json:"hotel_types"`
	RoomTypes  []SeedType  `json:"room_types"`
	Hotels     []SeedHotel `json:"hotels"`
}

type SeedOwner struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SeedType struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type SeedHotel struct {
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	Description *string    `json:"description"`
	Rating      *int       `json:"rating"`
	Type        *string    `json:"type"`
	Rooms       []SeedRoom `json:"rooms"`
}

type SeedRoom struct {
	Name          string  `json:"name"`
	Type          *string `json:"type"`
	PricePerNight float64 `json:"price_per_night"`
	IsAvailable   *bool   `json:"is_available"`
}

// SeedService loads fixture data through the regular write paths so
// validation and cache invalidation apply. Every step skips rows that
// already exist, which makes reruns safe.
type SeedService struct {
	accounts *AccountService
	catalog  *CatalogService
	users    domain.UserRepository
	repo     domain.CatalogRepository
}

func NewSeedService(a *AccountService, c *CatalogService, u domain.UserRepository, r domain.CatalogRepository) *SeedService {
	return &SeedService{accounts: a, catalog: c, users: u, repo: r}
}

// EnsureOwner returns the id of the hotel owner, creating a Tenant account if needed.
func (s *SeedService) EnsureOwner(ctx context.Context, o SeedOwner) (int64, error) {
	u, err := s.users.GetUserByEmail(ctx, domain.NormalizeEmail(o.Email))
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	group := domain.GroupTenant
	u, err = s.accounts.CreateUser(ctx, domain.NewUser{Email: &o.Email, Password: &o.Password, GroupName: &group})
	if err != nil {
		return 0, fmt.Errorf("create owner %s: %w", o.Email, err)
	}
	return u.ID, nil
}

// EnsureTypes creates the named types that do not exist yet and reports how many were added.
func (s *SeedService) EnsureTypes(ctx context.Context, k domain.Kind, ts []SeedType) (int, error) {
	added := 0
	for _, t := range ts {
		_, err := s.repo.GetTypeByName(ctx, k, t.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return added, err
		}
		name := t.Name
		if _, err := s.catalog.CreateType(ctx, k, domain.TypeFields{Name: &name, Description: t.Description}); err != nil {
			return added, fmt.Errorf("%s type %q: %w", k, t.Name, err)
		}
		added++
	}
	return added, nil
}

// SeedHotel creates the hotel and its rooms for ownerID. A hotel the owner
// already has under the same name is left alone. It reports whether anything was written.
func (s *SeedService) SeedHotel(ctx context.Context, ownerID int64, h SeedHotel) (bool, error) {
	existing, err := s.repo.ListHotels(ctx, &ownerID)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, h.Name) {
			log.Debug().Str("hotel", h.Name).Msg("seed: hotel exists, skipping")
			return false, nil
		}
	}

	created, err := s.catalog.CreateHotel(ctx, ownerID, domain.HotelFields{
		Name: &h.Name, Address: &h.Address, City: &h.City, Country: &h.Country,
		Description: h.Description, Rating: h.Rating, Type: h.Type,
	})
	if err != nil {
		return false, fmt.Errorf("hotel %q: %w", h.Name, err)
	}
	for _, r := range h.Rooms {
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		if _, err := s.catalog.CreateRoom(ctx, ownerID, domain.RoomFields{
			HotelID: &created.ID, Type: r.Type, Name: &r.Name,
			PricePerNight: &r.PricePerNight, IsAvailable: &available,
		}); err != nil {
			return true, fmt.Errorf("hotel %q room %q: %w", h.Name, r.Name, err)
		}
	}
	log.Info().Int64("hotel_id", created.ID).Str("hotel", h.Name).Int("rooms", len(h.Rooms)).Msg("seed: hotel created")
	return true, nil
}

package app

import (
	"context"
	"errors"
	"fmt"

	"hotel_booking/internal/domain"
)

type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
}

func NewProfileService(p domain.ProfileRepository, u domain.UserRepository) *ProfileService {
	return &ProfileService{profiles: p, users: u}
}

// Create attaches a profile to userID; a user has at most one.
func (s *ProfileService) Create(ctx context.Context, userID int64, f domain.ProfileFields) (domain.Profile, error) {
	if err := f.Validate(true); err != nil {
		return domain.Profile{}, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Profile{}, domain.UnknownRef("user_id", "user_not_found", fmt.Sprintf("user %d does not exist", userID))
		}
		return domain.Profile{}, err
	}
	_, err := s.profiles.GetProfileByUser(ctx, userID)
	switch {
	case err == nil:
		return domain.Profile{}, domain.Conflict("user_id", "profile_exists", "profile already exists for this user")
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Profile{}, err
	}

	p := domain.Profile{UserID: userID}
	f.Apply(&p)
	if err := s.profiles.CreateProfile(ctx, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id int64) (domain.Profile, error) {
	return s.profiles.GetProfile(ctx, id)
}

func (s *ProfileService) ForUser(ctx context.Context, userID int64) (domain.Profile, error) {
	return s.profiles.GetProfileByUser(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.ListProfiles(ctx)
}

// Update never touches total_bookings; that counter belongs to the booking engine.
func (s *ProfileService) Update(ctx context.Context, id int64, f domain.ProfileFields) (domain.Profile, error) {
	if err := f.Validate(false); err != nil {
		return domain.Profile{}, err
	}
	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	f.Apply(&p)
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return s.profiles.GetProfile(ctx, id)
}

func (s *ProfileService) Delete(ctx context.Context, id int64) error {
	return s.profiles.DeleteProfile(ctx, id)
}

package memory

import (
	"context"

	"hotel_booking/internal/domain"
)

func (s *Store) CreateProfile(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.profiles {
		if cur.UserID == p.UserID {
			return domain.Conflict("user_id", "profile_exists", "profile already exists for this user")
		}
	}
	if _, ok := s.users[p.UserID]; !ok {
		return domain.UnknownRef("user_id", "user_not_found", "user does not exist")
	}
	p.ID = s.id("profiles")
	p.TotalBookings = 0
	s.profiles[p.ID] = *p
	return nil
}

func (s *Store) GetProfile(_ context.Context, id int64) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetProfileByUser(_ context.Context, userID int64) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.Profile{}, domain.ErrNotFound
}

func (s *Store) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.profiles), nil
}

// UpdateProfile writes every field except total_bookings.
func (s *Store) UpdateProfile(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.profiles[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.UserID, p.TotalBookings = cur.UserID, cur.TotalBookings
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) DeleteProfile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

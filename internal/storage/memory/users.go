package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

func (s *Store) emailOwner(email string) (int64, bool) {
	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return id, true
		}
	}
	return 0, false
}

func (s *Store) CreateUser(_ context.Context, u *domain.User, group string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emailOwner(u.Email); taken {
		return domain.Conflict("email", "email_in_use", "Email is already in use.")
	}
	if !s.groups[group] {
		return domain.UnknownRef("group_name", "group_not_found", fmt.Sprintf("Group '%s' does not exist.", group))
	}
	u.ID = s.id("users")
	u.CreatedAt = time.Now().UTC()
	u.Groups = []string{group}
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.Groups = slices.Clone(u.Groups)
	return u
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailOwner(email)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	us := sortedValues(s.users)
	for i := range us {
		us[i] = cloneUser(us[i])
	}
	return us, nil
}

func (s *Store) UpdateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if owner, taken := s.emailOwner(u.Email); taken && owner != u.ID {
		return domain.Conflict("email", "email_in_use", "Email is already in use.")
	}
	cur.Email, cur.Phone, cur.PasswordHash = u.Email, u.Phone, u.PasswordHash
	s.users[u.ID] = cur
	return nil
}

// DeleteUser cascades to the user's profile, bookings and owned hotels.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	for pid, p := range s.profiles {
		if p.UserID == id {
			delete(s.profiles, pid)
		}
	}
	for bid, b := range s.bookings {
		if b.UserID == id {
			delete(s.bookings, bid)
		}
	}
	for hid, h := range s.hotels {
		if h.OwnerID == id {
			s.deleteHotel(hid)
		}
	}
	return nil
}

func (s *Store) EmailTaken(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, taken := s.emailOwner(email)
	return taken, nil
}

func (s *Store) GroupExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups[name], nil
}

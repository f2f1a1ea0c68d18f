package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

var errBadCredentials = &domain.RuleError{Kind: domain.ErrUnauthorized, Code: "invalid_credentials", Message: "Invalid credentials"}

type AccountService struct {
	users      domain.UserRepository
	sessions   domain.SessionStore
	sessionTTL time.Duration
	bcryptCost int
}

func NewAccountService(u domain.UserRepository, s domain.SessionStore, sessionTTL time.Duration, bcryptCost int) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{users: u, sessions: s, sessionTTL: sessionTTL, bcryptCost: bcryptCost}
}

func blank(p *string) bool { return p == nil || strings.TrimSpace(*p) == "" }

func (s *AccountService) hash(password string) (string, error) {
	if len(password) > 72 {
		return "", domain.Invalid("password", "password_too_long", "password must be at most 72 bytes")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CreateUser registers a user in an existing group. The user row and its
// group membership are written in one transaction.
func (s *AccountService) CreateUser(ctx context.Context, in domain.NewUser) (domain.User, error) {
	if blank(in.Email) {
		return domain.User{}, domain.Invalid("email", "email_required", "Email is required.")
	}
	email := domain.NormalizeEmail(*in.Email)
	if !domain.ValidEmail(email) {
		return domain.User{}, domain.Invalid("email", "invalid_email", "Enter a valid email address.")
	}
	if in.Password == nil || *in.Password == "" {
		return domain.User{}, domain.Invalid("password", "password_required", "Password is required.")
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("email lookup: %w", err)
	}
	if taken {
		return domain.User{}, domain.Conflict("email", "email_in_use", "Email is already in use.")
	}

	if blank(in.GroupName) {
		return domain.User{}, domain.Invalid("group_name", "group_name_required", "Group name is required.")
	}
	group := strings.TrimSpace(*in.GroupName)
	ok, err := s.users.GroupExists(ctx, group)
	if err != nil {
		return domain.User{}, fmt.Errorf("group lookup: %w", err)
	}
	if !ok {
		log.Warn().Str("group", group).Msg("user create: group does not exist")
		return domain.User{}, domain.UnknownRef("group_name", "group_not_found", fmt.Sprintf("Group '%s' does not exist.", group))
	}

	hash, err := s.hash(*in.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{Email: email, Phone: in.Phone, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, &u, group); err != nil {
		return domain.User{}, err
	}
	log.Info().Int64("user_id", u.ID).Str("group", group).Msg("user created")
	return u, nil
}

// Login verifies credentials and opens a session.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", domain.User{}, domain.Invalid("", "credentials_required", "Both email and password are required.")
	}
	u, err := s.users.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		observability.ObserveLogin("rejected")
		return "", domain.User{}, errBadCredentials
	}
	if err != nil {
		return "", domain.User{}, fmt.Errorf("login lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		observability.ObserveLogin("rejected")
		log.Warn().Int64("user_id", u.ID).Msg("failed login attempt")
		return "", domain.User{}, errBadCredentials
	}

	token, err := s.sessions.Create(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("create session: %w", err)
	}
	observability.ObserveLogin("ok")
	log.Info().Int64("user_id", u.ID).Msg("user logged in")
	return token, u, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	uid, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	log.Info().Int64("user_id", uid).Msg("user logged out")
	return nil
}

// Authenticate resolves a session token to its user.
func (s *AccountService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	uid, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUser(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		// user deleted while the session was alive
		_ = s.sessions.Delete(ctx, token)
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}

func (s *AccountService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *AccountService) UpdateUser(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if p.Email != nil {
		email := domain.NormalizeEmail(*p.Email)
		if !domain.ValidEmail(email) {
			return domain.User{}, domain.Invalid("email", "invalid_email", "Enter a valid email address.")
		}
		if !strings.EqualFold(email, u.Email) {
			taken, err := s.users.EmailTaken(ctx, email)
			if err != nil {
				return domain.User{}, fmt.Errorf("email lookup: %w", err)
			}
			if taken {
				return domain.User{}, domain.Conflict("email", "email_in_use", "Email is already in use.")
			}
		}
		u.Email = email
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Password != nil {
		if *p.Password == "" {
			return domain.User{}, domain.Invalid("password", "password_blank", "Password may not be blank.")
		}
		if u.PasswordHash, err = s.hash(*p.Password); err != nil {
			return domain.User{}, err
		}
	}
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.DeleteUser(ctx, id)
}

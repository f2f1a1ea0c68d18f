package domain

import (
	"strings"
	"time"
)

// Group names seeded by the migrations.
const (
	GroupUser   = "User"
	GroupTenant = "Tenant"
)

type User struct {
	ID           int64
	Email        string
	Phone        *string
	PasswordHash string
	Groups       []string
	CreatedAt    time.Time
}

func (u User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

type NewUser struct {
	Email     *string
	Password  *string
	Phone     *string
	GroupName *string
}

type UserPatch struct {
	Email    *string
	Phone    *string
	Password *string
}

// NormalizeEmail lower-cases the domain part only, keeping the local part as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

type Profile struct {
	ID             int64
	UserID         int64
	Username       string
	Bio            *string
	BirthDate      *time.Time
	Location       *string
	ProfilePicture *string
	TotalBookings  int64
}

type ProfileFields struct {
	Username       *string
	Bio            *string
	BirthDate      *time.Time
	Location       *string
	ProfilePicture *string
}

func (f ProfileFields) Validate(create bool) error {
	if create && f.Username == nil {
		return Invalid("username", "username_required", "username is required")
	}
	if f.Username != nil {
		u := strings.TrimSpace(*f.Username)
		if u == "" {
			return Invalid("username", "username_blank", "username may not be blank")
		}
		if len(u) > 100 {
			return Invalid("username", "username_too_long", "username must be at most 100 characters")
		}
	}
	if f.Location != nil && len(*f.Location) > 100 {
		return Invalid("location", "location_too_long", "location must be at most 100 characters")
	}
	return nil
}

func (f ProfileFields) Apply(p *Profile) {
	if f.Username != nil {
		p.Username = strings.TrimSpace(*f.Username)
	}
	if f.Bio != nil {
		p.Bio = f.Bio
	}
	if f.BirthDate != nil {
		p.BirthDate = f.BirthDate
	}
	if f.Location != nil {
		p.Location = f.Location
	}
	if f.ProfilePicture != nil {
		p.ProfilePicture = f.ProfilePicture
	}
}

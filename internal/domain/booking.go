package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire format of booking and search dates.
const DateLayout = "2006-01-02"

const (
	StatusActive    = "active"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// BlockingStatuses are the statuses that hold a room for their date range.
var BlockingStatuses = []string{StatusActive, StatusConfirmed}

type Booking struct {
	ID        int64
	UserID    int64
	RoomID    int64
	StartDate time.Time
	EndDate   time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// populated by list queries only
	Room *Room
	User *User
}

// BookingInput carries the dates as received (YYYY-MM-DD) so they are
// parsed only after the user and room are known to exist.
type BookingInput struct {
	UserID    int64
	RoomID    int64
	StartDate string
	EndDate   string
	Status    string
}

// BookingPatch is a partial update; nil fields are left untouched.
type BookingPatch struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

type BookingQuery struct {
	UserID  *int64 // bookings made by this user
	OwnerID *int64 // bookings on rooms of hotels owned by this user
}

type OverlapQuery struct {
	RoomID    int64
	Start     time.Time
	End       time.Time
	Statuses  []string // empty means every status blocks
	ExcludeID int64
}

func IsBlocking(status string) bool {
	for _, s := range BlockingStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Back-to-back intervals (aEnd == bStart) do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateRange checks both dates are present and end is strictly after start.
func ValidateRange(start, end *time.Time) error {
	if start == nil {
		return Invalid("start_date", "start_date_required", "start date is required")
	}
	if end == nil {
		return Invalid("end_date", "end_date_required", "end date is required")
	}
	if !end.After(*start) {
		return ErrInvalidDateRange
	}
	return nil
}

// ParseRange parses both dates of a booking and checks their order.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	if strings.TrimSpace(start) == "" {
		return time.Time{}, time.Time{}, Invalid("start_date", "start_date_required", "start date is required")
	}
	if strings.TrimSpace(end) == "" {
		return time.Time{}, time.Time{}, Invalid("end_date", "end_date_required", "end date is required")
	}
	s, err := ParseDate("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := ValidateRange(&s, &e); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// ParseDate parses a YYYY-MM-DD value into a UTC midnight time.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, Invalid(field, "invalid_date", field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

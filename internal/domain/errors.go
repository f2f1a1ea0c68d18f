package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrReference    = errors.New("unknown reference")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// RuleError is a domain-rule violation surfaced to the caller verbatim.
// It unwraps to its Kind (one of the sentinels above).
type RuleError struct {
	Kind    error
	Code    string
	Field   string
	Message string
}

func (e *RuleError) Error() string { return e.Message }
func (e *RuleError) Unwrap() error { return e.Kind }

func Invalid(field, code, msg string) error {
	return &RuleError{Kind: ErrValidation, Code: code, Field: field, Message: msg}
}

func UnknownRef(field, code, msg string) error {
	return &RuleError{Kind: ErrReference, Code: code, Field: field, Message: msg}
}

func Conflict(field, code, msg string) error {
	return &RuleError{Kind: ErrConflict, Code: code, Field: field, Message: msg}
}

// Booking rule violations.
var (
	ErrInvalidDateRange = &RuleError{Kind: ErrValidation, Code: "invalid_date_range", Field: "end_date", Message: "end date must be after start date"}
	ErrRoomBooked       = &RuleError{Kind: ErrConflict, Code: "room_already_booked", Message: "room already booked for selected dates"}
)

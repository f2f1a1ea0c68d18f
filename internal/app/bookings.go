package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type BookingService struct {
	users    domain.UserRepository
	bookings domain.BookingRepository
	cache    domain.Cache
}

func NewBookingService(u domain.UserRepository, b domain.BookingRepository, c domain.Cache) *BookingService {
	return &BookingService{users: u, bookings: b, cache: c}
}

func validateStatus(status string) error {
	if strings.TrimSpace(status) == "" {
		return domain.Invalid("status", "status_required", "status is required")
	}
	if len(status) > 50 {
		return domain.Invalid("status", "status_too_long", "status must be at most 50 characters")
	}
	return nil
}

// Create validates and persists a booking. The room row stays locked from the
// overlap check until commit, and both counters are bumped in the same
// transaction.
func (s *BookingService) Create(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, domain.UnknownRef("user_id", "user_not_found", fmt.Sprintf("user %d does not exist", in.UserID))
		}
		return domain.Booking{}, fmt.Errorf("lookup user %d: %w", in.UserID, err)
	}

	var (
		b    domain.Booking
		room domain.Room
	)
	err := s.bookings.WithinTx(ctx, func(tx domain.BookingTx) error {
		var err error
		room, err = tx.LockRoom(ctx, in.RoomID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UnknownRef("room_id", "room_not_found", fmt.Sprintf("room %d does not exist", in.RoomID))
		}
		if err != nil {
			return fmt.Errorf("lock room %d: %w", in.RoomID, err)
		}

		start, end, err := domain.ParseRange(in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if err := validateStatus(in.Status); err != nil {
			return err
		}

		overlap, err := tx.HasOverlap(ctx, domain.OverlapQuery{
			RoomID:   room.ID,
			Start:    start,
			End:      end,
			Statuses: domain.BlockingStatuses,
		})
		if err != nil {
			return fmt.Errorf("overlap check: %w", err)
		}
		if overlap {
			return domain.ErrRoomBooked
		}

		b = domain.Booking{
			UserID:    in.UserID,
			RoomID:    room.ID,
			StartDate: start,
			EndDate:   end,
			Status:    in.Status,
		}
		if err := tx.InsertBooking(ctx, &b); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		s.bumpCounters(ctx, tx, b)
		return nil
	})
	if err != nil {
		observability.ObserveBooking(outcome(err))
		return domain.Booking{}, err
	}
	observability.ObserveBooking("created")

	invalidate(ctx, s.cache, roomKey(room.ID), hotelKey(room.HotelID))
	log.Info().
		Int64("booking_id", b.ID).
		Int64("room_id", b.RoomID).
		Int64("user_id", b.UserID).
		Str("status", b.Status).
		Msg("booking created")
	return b, nil
}

// bumpCounters never fails the booking; a missing row or a failed update is
// logged and counted.
func (s *BookingService) bumpCounters(ctx context.Context, tx domain.BookingTx, b domain.Booking) {
	if ok, err := tx.IncrementProfileBookings(ctx, b.UserID); err != nil {
		observability.ObserveCounterMiss("profile")
		log.Error().Err(err).Int64("booking_id", b.ID).Int64("user_id", b.UserID).Msg("profile counter update failed")
	} else if !ok {
		observability.ObserveCounterMiss("profile")
		log.Warn().Int64("booking_id", b.ID).Int64("user_id", b.UserID).Msg("profile not found; total_bookings not updated")
	}

	if ok, err := tx.IncrementRoomBookings(ctx, b.RoomID); err != nil {
		observability.ObserveCounterMiss("room")
		log.Error().Err(err).Int64("booking_id", b.ID).Int64("room_id", b.RoomID).Msg("room counter update failed")
	} else if !ok {
		observability.ObserveCounterMiss("room")
		log.Warn().Int64("booking_id", b.ID).Int64("room_id", b.RoomID).Msg("room not found; total_bookings not updated")
	}
}

// Update applies a partial change. If the result holds the room, the
// overlap check is repeated against every other booking of the room.
func (s *BookingService) Update(ctx context.Context, id int64, p domain.BookingPatch) (domain.Booking, error) {
	if p.Status != nil {
		if err := validateStatus(*p.Status); err != nil {
			return domain.Booking{}, err
		}
	}

	var b domain.Booking
	err := s.bookings.WithinTx(ctx, func(tx domain.BookingTx) error {
		cur, err := tx.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.LockRoom(ctx, cur.RoomID); err != nil {
			return fmt.Errorf("lock room %d: %w", cur.RoomID, err)
		}

		b = cur
		if p.StartDate != nil {
			b.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			b.EndDate = *p.EndDate
		}
		if p.Status != nil {
			b.Status = *p.Status
		}
		if err := domain.ValidateRange(&b.StartDate, &b.EndDate); err != nil {
			return err
		}

		if domain.IsBlocking(b.Status) {
			overlap, err := tx.HasOverlap(ctx, domain.OverlapQuery{
				RoomID:    b.RoomID,
				Start:     b.StartDate,
				End:       b.EndDate,
				Statuses:  domain.BlockingStatuses,
				ExcludeID: b.ID,
			})
			if err != nil {
				return fmt.Errorf("overlap check: %w", err)
			}
			if overlap {
				return domain.ErrRoomBooked
			}
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return domain.Booking{}, err
	}
	log.Info().Int64("booking_id", b.ID).Str("status", b.Status).Msg("booking updated")
	return s.bookings.GetBooking(ctx, id)
}

func (s *BookingService) Get(ctx context.Context, id int64) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func (s *BookingService) List(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, q)
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("booking_id", id).Msg("booking deleted")
	return nil
}

// outcome labels a failed booking attempt for metrics.
func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrReference):
		return "invalid"
	default:
		return "error"
	}
}

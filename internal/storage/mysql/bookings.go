package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hotel_booking/internal/domain"
)

// WithinTx runs fn in a READ COMMITTED transaction; concurrent writers for a
// room are ordered by the row lock LockRoom takes.
func (r *Repo) WithinTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(&bookingTx{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type bookingTx struct{ q querier }

func (t *bookingTx) LockRoom(ctx context.Context, roomID int64) (domain.Room, error) {
	var rm domain.Room
	var typeID sql.NullInt64
	var preview sql.NullString
	err := t.q.QueryRowContext(ctx, lockRoomSQL, roomID).Scan(&rm.ID, &rm.HotelID, &typeID, &rm.Name,
		&rm.PricePerNight, &rm.IsAvailable, &preview, &rm.TotalBookings)
	if err != nil {
		return domain.Room{}, notFoundOr(err)
	}
	rm.TypeID, rm.PreviewImage = ptrInt64(typeID), ptrStr(preview)
	return rm, nil
}

func (t *bookingTx) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return getBooking(ctx, t.q, id)
}

func (t *bookingTx) HasOverlap(ctx context.Context, q domain.OverlapQuery) (bool, error) {
	args := []any{q.RoomID, q.End.Format(domain.DateLayout), q.Start.Format(domain.DateLayout), q.ExcludeID}
	status := ""
	if len(q.Statuses) > 0 {
		status = " AND status IN (" + strings.TrimSuffix(strings.Repeat("?,", len(q.Statuses)), ",") + ")"
		for _, s := range q.Statuses {
			args = append(args, s)
		}
	}
	var found bool
	if err := t.q.QueryRowContext(ctx, fmt.Sprintf(overlapSQL, status), args...).Scan(&found); err != nil {
		return false, fmt.Errorf("overlap probe: %w", err)
	}
	return found, nil
}

func (t *bookingTx) InsertBooking(ctx context.Context, b *domain.Booking) error {
	res, err := t.q.ExecContext(ctx, insertBookingSQL, b.UserID, b.RoomID,
		b.StartDate.Format(domain.DateLayout), b.EndDate.Format(domain.DateLayout), b.Status)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := getBooking(ctx, t.q, id)
	if err != nil {
		return err
	}
	*b = saved
	return nil
}

func (t *bookingTx) UpdateBooking(ctx context.Context, b domain.Booking) error {
	_, err := t.q.ExecContext(ctx, updateBookingSQL,
		b.StartDate.Format(domain.DateLayout), b.EndDate.Format(domain.DateLayout), b.Status, b.ID)
	return err
}

func (t *bookingTx) IncrementRoomBookings(ctx context.Context, roomID int64) (bool, error) {
	return increment(ctx, t.q, incRoomBookingsSQL, roomID)
}

func (t *bookingTx) IncrementProfileBookings(ctx context.Context, userID int64) (bool, error) {
	return increment(ctx, t.q, incProfileBookingsSQL, userID)
}

func increment(ctx context.Context, q querier, stmt string, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, stmt, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	err := s.Scan(&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func getBooking(ctx context.Context, q querier, id int64) (domain.Booking, error) {
	b, err := scanBooking(q.QueryRowContext(ctx, bookingSelectSQL+"WHERE id = ?", id))
	return b, notFoundOr(err)
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return getBooking(ctx, r.db, id)
}

// ListBookings returns bookings newest first with room and booker attached.
func (r *Repo) ListBookings(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	var w where
	if q.UserID != nil {
		w.add("b.user_id = ?", *q.UserID)
	}
	if q.OwnerID != nil {
		w.add("h.owner_id = ?", *q.OwnerID)
	}
	rows, err := r.db.QueryContext(ctx, bookingListSQL+w.String()+"ORDER BY b.created_at DESC, b.id DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var (
			b                 domain.Booking
			rm                domain.Room
			u                 domain.User
			typeID            sql.NullInt64
			typeName, preview sql.NullString
			hotelType, phone  sql.NullString
		)
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&rm.ID, &rm.HotelID, &typeID, &typeName, &rm.Name, &rm.PricePerNight,
			&rm.IsAvailable, &preview, &rm.TotalBookings,
			&rm.HotelName, &hotelType, &rm.HotelAddress, &rm.HotelCity, &rm.HotelCountry,
			&u.ID, &u.Email, &phone, &u.PasswordHash, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		rm.TypeID, rm.TypeName, rm.PreviewImage, rm.HotelType = ptrInt64(typeID), ptrStr(typeName), ptrStr(preview), ptrStr(hotelType)
		u.Phone = ptrStr(phone)
		b.Room, b.User = &rm, &u
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id))
}

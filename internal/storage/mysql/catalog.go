package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

// ---- types ----

func (r *Repo) ListTypes(ctx context.Context, k domain.Kind) ([]domain.Type, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name, description FROM %s ORDER BY name`, typeTable(k)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Type
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanType(s scanner) (domain.Type, error) {
	var t domain.Type
	var desc sql.NullString
	if err := s.Scan(&t.ID, &t.Name, &desc); err != nil {
		return domain.Type{}, err
	}
	t.Description = ptrStr(desc)
	return t, nil
}

func (r *Repo) GetType(ctx context.Context, k domain.Kind, id int64) (domain.Type, error) {
	q := fmt.Sprintf(`SELECT id, name, description FROM %s WHERE id = ?`, typeTable(k))
	t, err := scanType(r.db.QueryRowContext(ctx, q, id))
	return t, notFoundOr(err)
}

func (r *Repo) GetTypeByName(ctx context.Context, k domain.Kind, name string) (domain.Type, error) {
	q := fmt.Sprintf(`SELECT id, name, description FROM %s WHERE name = ?`, typeTable(k))
	t, err := scanType(r.db.QueryRowContext(ctx, q, name))
	return t, notFoundOr(err)
}

func (r *Repo) CreateType(ctx context.Context, k domain.Kind, t *domain.Type) error {
	q := fmt.Sprintf(`INSERT INTO %s (name, description) VALUES (?, ?)`, typeTable(k))
	res, err := r.db.ExecContext(ctx, q, t.Name, valStr(t.Description))
	if isDuplicate(err) {
		return domain.Conflict("name", "type_exists", fmt.Sprintf("%s type '%s' already exists", k, t.Name))
	}
	if err != nil {
		return fmt.Errorf("insert %s type: %w", k, err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) UpdateType(ctx context.Context, k domain.Kind, t domain.Type) error {
	q := fmt.Sprintf(`UPDATE %s SET name = ?, description = ? WHERE id = ?`, typeTable(k))
	_, err := r.db.ExecContext(ctx, q, t.Name, valStr(t.Description), t.ID)
	if isDuplicate(err) {
		return domain.Conflict("name", "type_exists", fmt.Sprintf("%s type '%s' already exists", k, t.Name))
	}
	return err
}

func (r *Repo) DeleteType(ctx context.Context, k domain.Kind, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, typeTable(k)), id))
}

// ---- hotels ----

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, typeName, preview sql.NullString
	var rating, typeID sql.NullInt64
	if err := s.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &h.City, &h.Country,
		&desc, &rating, &typeID, &typeName, &preview); err != nil {
		return domain.Hotel{}, err
	}
	h.Description, h.TypeID, h.TypeName, h.PreviewImage = ptrStr(desc), ptrInt64(typeID), ptrStr(typeName), ptrStr(preview)
	if rating.Valid {
		v := int(rating.Int64)
		h.Rating = &v
	}
	return h, nil
}

func (r *Repo) queryHotels(ctx context.Context, q string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, insertHotelSQL, h.OwnerID, h.Name, h.Address, h.City, h.Country,
		valStr(h.Description), valInt(h.Rating), valInt64(h.TypeID), valStr(h.PreviewImage))
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	h.ID, err = res.LastInsertId()
	return err
}

// GetHotel returns the hotel with its rooms and images attached.
func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, hotelSelectSQL+"WHERE h.id = ?", id))
	if err != nil {
		return domain.Hotel{}, notFoundOr(err)
	}
	if h.Rooms, err = r.queryRooms(ctx, roomSelectSQL+"WHERE r.hotel_id = ? ORDER BY r.id", id); err != nil {
		return domain.Hotel{}, err
	}
	if err := r.attachRoomImages(ctx, h.Rooms); err != nil {
		return domain.Hotel{}, err
	}
	if h.Images, err = r.imagesOf(ctx, domain.HotelKind, id); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, ownerID *int64) ([]domain.Hotel, error) {
	if ownerID != nil {
		return r.queryHotels(ctx, hotelSelectSQL+"WHERE h.owner_id = ? ORDER BY h.id", *ownerID)
	}
	return r.queryHotels(ctx, hotelSelectSQL+"ORDER BY h.id")
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, updateHotelSQL, h.Name, h.Address, h.City, h.Country,
		valStr(h.Description), valInt(h.Rating), valInt64(h.TypeID), valStr(h.PreviewImage), h.ID)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id))
}

// ---- rooms ----

func scanRoom(s scanner) (domain.Room, error) {
	var rm domain.Room
	var typeID sql.NullInt64
	var typeName, preview, hotelType sql.NullString
	if err := s.Scan(&rm.ID, &rm.HotelID, &typeID, &typeName, &rm.Name, &rm.PricePerNight,
		&rm.IsAvailable, &preview, &rm.TotalBookings,
		&rm.HotelName, &hotelType, &rm.HotelAddress, &rm.HotelCity, &rm.HotelCountry); err != nil {
		return domain.Room{}, err
	}
	rm.TypeID, rm.TypeName, rm.PreviewImage, rm.HotelType = ptrInt64(typeID), ptrStr(typeName), ptrStr(preview), ptrStr(hotelType)
	return rm, nil
}

func (r *Repo) queryRooms(ctx context.Context, q string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) CreateRoom(ctx context.Context, rm *domain.Room) error {
	res, err := r.db.ExecContext(ctx, insertRoomSQL, rm.HotelID, valInt64(rm.TypeID), rm.Name,
		rm.PricePerNight, rm.IsAvailable, valStr(rm.PreviewImage))
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	rm.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, roomSelectSQL+"WHERE r.id = ?", id))
	if err != nil {
		return domain.Room{}, notFoundOr(err)
	}
	rm.Images, err = r.imagesOf(ctx, domain.RoomKind, id)
	return rm, err
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := r.queryRooms(ctx, roomSelectSQL+"ORDER BY r.id")
	if err != nil {
		return nil, err
	}
	return rooms, r.attachRoomImages(ctx, rooms)
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, updateRoomSQL, rm.HotelID, valInt64(rm.TypeID), rm.Name,
		rm.PricePerNight, rm.IsAvailable, valStr(rm.PreviewImage), rm.ID)
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id))
}

// ---- images ----

func (r *Repo) AddImage(ctx context.Context, k domain.Kind, img *domain.Image) error {
	q := fmt.Sprintf(`INSERT INTO %s (parent_id, path) VALUES (?, ?)`, imageTable(k))
	res, err := r.db.ExecContext(ctx, q, img.ParentID, img.Path)
	if err != nil {
		return fmt.Errorf("insert %s image: %w", k, err)
	}
	if img.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	q = fmt.Sprintf(`SELECT uploaded_at FROM %s WHERE id = ?`, imageTable(k))
	return r.db.QueryRowContext(ctx, q, img.ID).Scan(&img.UploadedAt)
}

func (r *Repo) queryImages(ctx context.Context, q string, args ...any) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Image{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ParentID, &img.Path, &img.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) ListImages(ctx context.Context, k domain.Kind) ([]domain.Image, error) {
	q := fmt.Sprintf(`SELECT id, parent_id, path, uploaded_at FROM %s ORDER BY id`, imageTable(k))
	return r.queryImages(ctx, q)
}

func (r *Repo) imagesOf(ctx context.Context, k domain.Kind, parentID int64) ([]domain.Image, error) {
	q := fmt.Sprintf(`SELECT id, parent_id, path, uploaded_at FROM %s WHERE parent_id = ? ORDER BY id`, imageTable(k))
	return r.queryImages(ctx, q, parentID)
}

// attachRoomImages loads images for all rooms in one query.
func (r *Repo) attachRoomImages(ctx context.Context, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	ids := make([]int64, len(rooms))
	for i, rm := range rooms {
		ids[i] = rm.ID
		rooms[i].Images = []domain.Image{}
	}
	ph, args := placeholders(ids)
	imgs, err := r.queryImages(ctx,
		fmt.Sprintf(`SELECT id, parent_id, path, uploaded_at FROM room_images WHERE parent_id IN (%s) ORDER BY id`, ph), args...)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		for i := range rooms {
			if rooms[i].ID == img.ParentID {
				rooms[i].Images = append(rooms[i].Images, img)
			}
		}
	}
	return nil
}

func (r *Repo) DeleteImage(ctx context.Context, k domain.Kind, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, imageTable(k)), id))
}

package mysql

import (
	"context"
	"strings"

	"hotel_booking/internal/domain"
)

var roomSortColumns = map[string]string{
	"id":              "r.id",
	"name":            "r.name",
	"price_per_night": "r.price_per_night",
	"is_available":    "r.is_available",
	"total_bookings":  "r.total_bookings",
	"hotel":           "r.hotel_id",
	"type":            "rt.name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeArg(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// where accumulates AND-ed predicates and their args.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) contains(col, v string) {
	if v == "" {
		return
	}
	w.add("LOWER("+col+`) LIKE ? ESCAPE '\\'`, likeArg(v))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ") + " "
}

func hotelWhere(w *where, f domain.HotelFilter) {
	w.contains("h.name", f.Name)
	w.contains("ht.name", f.TypeName)
	w.contains("h.country", f.Country)
	w.contains("h.city", f.City)
}

// SearchHotels returns matching hotels with their rooms and images.
func (r *Repo) SearchHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	var w where
	hotelWhere(&w, f)
	hs, err := r.queryHotels(ctx, hotelSelectSQL+w.String()+"ORDER BY h.id", w.args...)
	if err != nil {
		return nil, err
	}
	return hs, r.attachHotelDetails(ctx, hs)
}

// attachHotelDetails loads rooms, room images and hotel images for all
// hotels with one query each.
func (r *Repo) attachHotelDetails(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	ids := make([]int64, len(hs))
	byID := make(map[int64]*domain.Hotel, len(hs))
	for i := range hs {
		ids[i] = hs[i].ID
		hs[i].Rooms, hs[i].Images = []domain.Room{}, []domain.Image{}
		byID[hs[i].ID] = &hs[i]
	}
	ph, args := placeholders(ids)

	rooms, err := r.queryRooms(ctx, roomSelectSQL+"WHERE r.hotel_id IN ("+ph+") ORDER BY r.id", args...)
	if err != nil {
		return err
	}
	if err := r.attachRoomImages(ctx, rooms); err != nil {
		return err
	}
	for _, rm := range rooms {
		if h, ok := byID[rm.HotelID]; ok {
			h.Rooms = append(h.Rooms, rm)
		}
	}

	imgs, err := r.queryImages(ctx,
		"SELECT id, parent_id, path, uploaded_at FROM hotel_images WHERE parent_id IN ("+ph+") ORDER BY id", args...)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		if h, ok := byID[img.ParentID]; ok {
			h.Images = append(h.Images, img)
		}
	}
	return nil
}

func (r *Repo) SearchRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	var w where
	hotelWhere(&w, f.Hotel)
	w.contains("r.name", f.Name)
	w.contains("rt.name", f.TypeName)
	if f.PriceMin != nil {
		w.add("r.price_per_night >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		w.add("r.price_per_night <= ?", *f.PriceMax)
	}
	if f.Window != nil {
		clause := "NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = r.id AND b.start_date < ? AND b.end_date > ?"
		args := []any{f.Window.End.Format(domain.DateLayout), f.Window.Start.Format(domain.DateLayout)}
		if len(f.BlockingStatuses) > 0 {
			clause += " AND b.status IN (" + strings.TrimSuffix(strings.Repeat("?,", len(f.BlockingStatuses)), ",") + ")"
			for _, s := range f.BlockingStatuses {
				args = append(args, s)
			}
		}
		w.add(clause+")", args...)
	}

	order := "ORDER BY r.id"
	if f.Sort != nil {
		dir := "ASC"
		if f.Sort.Desc {
			dir = "DESC"
		}
		order = "ORDER BY " + roomSortColumns[f.Sort.Field] + " " + dir + ", r.id"
	}

	rooms, err := r.queryRooms(ctx, roomSelectSQL+w.String()+order, w.args...)
	if err != nil {
		return nil, err
	}
	return rooms, r.attachRoomImages(ctx, rooms)
}

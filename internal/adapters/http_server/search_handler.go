package httpserver

import (
	"net/http"
	"strings"

	"hotel_booking/internal/app"
)

// search answers {hotels, rooms}, or {rooms} alone when show_rooms_only=true.
func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Search.Search(r.Context(), app.SearchQuery{
		Hotel:         q.Get("hotel"),
		HotelType:     q.Get("hotel_type"),
		Country:       q.Get("country"),
		City:          q.Get("city"),
		Room:          q.Get("room"),
		RoomType:      q.Get("room_type"),
		PriceMin:      q.Get("priceMin"),
		PriceMax:      q.Get("priceMax"),
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
		Sort:          q.Get("sort"),
		ShowRoomsOnly: strings.EqualFold(q.Get("show_rooms_only"), "true"),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if res.RoomsOnly {
		writeJSON(w, r, http.StatusOK, map[string]any{"rooms": toRooms(res.Rooms)})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"hotels": toHotels(res.Hotels), "rooms": toRooms(res.Rooms)})
}

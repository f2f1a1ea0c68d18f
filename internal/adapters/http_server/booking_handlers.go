package httpserver

import (
	"net/http"

	"hotel_booking/internal/domain"
)

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	switch {
	case body.UserID == nil:
		writeErr(w, r, domain.Invalid("user_id", "user_id_required", "user_id is required"))
		return
	case body.RoomID == nil:
		writeErr(w, r, domain.Invalid("room_id", "room_id_required", "room_id is required"))
		return
	}
	in := domain.BookingInput{
		UserID:    *body.UserID,
		RoomID:    *body.RoomID,
		StartDate: deref(body.StartDate),
		EndDate:   deref(body.EndDate),
		Status:    deref(body.Status),
	}
	b, err := h.Bookings.Create(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toBooking(b))
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	h.writeBookings(w, r, domain.BookingQuery{})
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	uid := mustUser(r).ID
	h.writeBookings(w, r, domain.BookingQuery{UserID: &uid})
}

// ownerBookings lists bookings on rooms of hotels the caller owns.
func (h *Handlers) ownerBookings(w http.ResponseWriter, r *http.Request) {
	uid := mustUser(r).ID
	h.writeBookings(w, r, domain.BookingQuery{OwnerID: &uid})
}

func (h *Handlers) writeBookings(w http.ResponseWriter, r *http.Request, q domain.BookingQuery) {
	bs, err := h.Bookings.List(r.Context(), q)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBookings(bs))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	b, err := h.Bookings.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body bookingBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	p := domain.BookingPatch{Status: body.Status}
	if p.StartDate, err = dateField("start_date", body.StartDate); err != nil {
		writeErr(w, r, err)
		return
	}
	if p.EndDate, err = dateField("end_date", body.EndDate); err != nil {
		writeErr(w, r, err)
		return
	}
	b, err := h.Bookings.Update(r.Context(), id, p)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	noContent(w)
}

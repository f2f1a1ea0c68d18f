package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/domain"
)

// ---- types and images (shared by hotels and rooms) ----

func mountTypes(r chi.Router, h *Handlers, k domain.Kind) {
	r.Get("/types", func(w http.ResponseWriter, r *http.Request) {
		ts, err := h.Queries.ListTypes(r.Context(), k)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		out := make([]typeDTO, 0, len(ts))
		for _, t := range ts {
			out = append(out, toType(t))
		}
		writeJSON(w, r, http.StatusOK, out)
	})
	r.Get("/types/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		t, err := h.Queries.GetType(r.Context(), k, id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toType(t))
	})

	r.With(RequireAuth).Post("/types", func(w http.ResponseWriter, r *http.Request) {
		var body typeBody
		if err := decode(r, &body); err != nil {
			writeErr(w, r, err)
			return
		}
		t, err := h.Catalog.CreateType(r.Context(), k, domain.TypeFields{Name: body.Name, Description: body.Description})
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toType(t))
	})
	r.With(RequireAuth).Patch("/types/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		var body typeBody
		if err := decode(r, &body); err != nil {
			writeErr(w, r, err)
			return
		}
		t, err := h.Catalog.UpdateType(r.Context(), k, id, domain.TypeFields{Name: body.Name, Description: body.Description})
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toType(t))
	})
	r.With(RequireAuth).Delete("/types/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if err := h.Catalog.DeleteType(r.Context(), k, id); err != nil {
			writeErr(w, r, err)
			return
		}
		noContent(w)
	})
}

func mountImages(r chi.Router, h *Handlers, k domain.Kind) {
	r.Get("/images", func(w http.ResponseWriter, r *http.Request) {
		imgs, err := h.Queries.ListImages(r.Context(), k)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toImages(k, imgs))
	})
	r.With(RequireAuth).Post("/images", func(w http.ResponseWriter, r *http.Request) {
		var body imageBody
		if err := decode(r, &body); err != nil {
			writeErr(w, r, err)
			return
		}
		parent, field := body.Hotel, "hotel"
		if k == domain.RoomKind {
			parent, field = body.Room, "room"
		}
		if parent == nil {
			writeErr(w, r, domain.Invalid(field, field+"_required", field+" is required"))
			return
		}
		img, err := h.Catalog.AddImage(r.Context(), k, *parent, body.Image)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toImage(k, img))
	})
	r.With(RequireAuth).Delete("/images/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if err := h.Catalog.DeleteImage(r.Context(), k, id); err != nil {
			writeErr(w, r, err)
			return
		}
		noContent(w)
	})
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Queries.ListHotels(r.Context(), nil)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toHotels(hs))
}

func (h *Handlers) myHotels(w http.ResponseWriter, r *http.Request) {
	owner := mustUser(r).ID
	hs, err := h.Queries.ListHotels(r.Context(), &owner)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toHotels(hs))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	hotel, err := h.Queries.GetHotel(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toHotel(hotel))
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var body hotelBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	hotel, err := h.Catalog.CreateHotel(r.Context(), mustUser(r).ID, body.fields())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toHotel(hotel))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body hotelBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	hotel, err := h.Catalog.UpdateHotel(r.Context(), mustUser(r).ID, id, body.fields())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toHotel(hotel))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Catalog.DeleteHotel(r.Context(), mustUser(r).ID, id); err != nil {
		writeErr(w, r, err)
		return
	}
	noContent(w)
}

// ---- rooms ----

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Queries.ListRooms(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRooms(rs))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	room, err := h.Queries.GetRoom(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoom(room))
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var body roomBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	room, err := h.Catalog.CreateRoom(r.Context(), mustUser(r).ID, body.fields())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRoom(room))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body roomBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	room, err := h.Catalog.UpdateRoom(r.Context(), mustUser(r).ID, id, body.fields())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoom(room))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Catalog.DeleteRoom(r.Context(), mustUser(r).ID, id); err != nil {
		writeErr(w, r, err)
		return
	}
	noContent(w)
}

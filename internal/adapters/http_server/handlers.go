package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Handlers struct {
	Accounts *app.AccountService
	Profiles *app.ProfileService
	Catalog  *app.CatalogService
	Queries  *app.QueryService
	Search   *app.SearchService
	Bookings *app.BookingService

	LoginLimiter  *IPLimiter
	SessionTTL    time.Duration
	SecureCookies bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(api chi.Router) {
		api.Use(h.Session)
		api.Use(CSRF)

		api.Route("/auth", func(r chi.Router) {
			r.Get("/csrf", h.csrf)
			r.With(h.LoginLimiter.Middleware).Post("/login", h.login)
			r.With(RequireAuth).Post("/logout", h.logout)
			r.Post("/users", h.createUser)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/users", h.listUsers)
				r.Get("/users/me", h.me)
				r.Get("/users/{id}", h.getUser)
				r.Patch("/users/{id}", h.updateUser)
				r.Delete("/users/{id}", h.deleteUser)
			})
		})

		api.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.listProfiles)
			r.Get("/{id}", h.getProfile)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.createProfile)
				r.Get("/me", h.myProfile)
				r.Patch("/{id}", h.updateProfile)
				r.Delete("/{id}", h.deleteProfile)
			})
		})

		api.Route("/hotels", func(r chi.Router) {
			r.Get("/search", h.search)
			r.Get("/", h.listHotels)
			r.Get("/{id}", h.getHotel)
			mountTypes(r, h, domain.HotelKind)
			mountImages(r, h, domain.HotelKind)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/me", h.myHotels)
				r.Post("/", h.createHotel)
				r.Patch("/{id}", h.updateHotel)
				r.Delete("/{id}", h.deleteHotel)
			})
		})

		api.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.listRooms)
			r.Get("/{id}", h.getRoom)
			mountTypes(r, h, domain.RoomKind)
			mountImages(r, h, domain.RoomKind)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.createRoom)
				r.Patch("/{id}", h.updateRoom)
				r.Delete("/{id}", h.deleteRoom)
			})
		})

		api.Route("/bookings", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", h.listBookings)
			r.Post("/", h.createBooking)
			r.Get("/me", h.myBookings)
			r.Get("/owner", h.ownerBookings)
			r.Get("/{id}", h.getBooking)
			r.Patch("/{id}", h.updateBooking)
			r.Delete("/{id}", h.deleteBooking)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail, code, field string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Code: code, Field: field}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps domain errors onto problem responses. Rule violations are
// passed through verbatim; anything else is logged and answered with a
// generic 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var re *domain.RuleError
	errors.As(err, &re)
	detail := err.Error()

	var status int
	var title string
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, title = http.StatusBadRequest, "Invalid Input"
	case errors.Is(err, domain.ErrReference):
		status, title = http.StatusBadRequest, "Unknown Reference"
	case errors.Is(err, domain.ErrConflict):
		status, title = http.StatusBadRequest, "Conflict"
	case errors.Is(err, domain.ErrNotFound):
		status, title, detail = http.StatusNotFound, "Not Found", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, title = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		status, title, detail = http.StatusForbidden, "Forbidden", "you do not have permission to perform this action"
	default:
		log.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal server error, please try again later", "", "")
		return
	}
	if re != nil {
		writeProblem(w, status, title, detail, re.Code, re.Field)
		return
	}
	writeProblem(w, status, title, detail, "", "")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeJSON sends v; successful GETs carry a weak ETag and honour If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if r.Method == http.MethodGet && status == http.StatusOK {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag) // include ETag on 304
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write response body")
	}
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.Invalid("", "invalid_body", "request body must be valid JSON")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// non-numeric ids can never match a row
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// mustUser is only called behind RequireAuth.
func mustUser(r *http.Request) domain.User {
	u, _ := currentUser(r)
	return u
}

func noContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

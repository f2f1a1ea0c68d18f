package httpserver

import (
	"net/http"

	"hotel_booking/internal/domain"
)

func (h *Handlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Profiles.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out := make([]profileDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProfile(p))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := h.Profiles.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProfile(p))
}

func (h *Handlers) myProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.ForUser(r.Context(), mustUser(r).ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProfile(p))
}

// createProfile attaches the profile to the caller.
func (h *Handlers) createProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	f, err := body.fields()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := h.Profiles.Create(r.Context(), mustUser(r).ID, f)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toProfile(p))
}

// ownProfile loads the profile named in the path and checks it belongs to the caller.
func (h *Handlers) ownProfile(r *http.Request) (domain.Profile, error) {
	id, err := pathID(r)
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := h.Profiles.Get(r.Context(), id)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.UserID != mustUser(r).ID {
		return domain.Profile{}, domain.ErrForbidden
	}
	return p, nil
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownProfile(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body profileBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	f, err := body.fields()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.Profiles.Update(r.Context(), p.ID, f)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProfile(out))
}

func (h *Handlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownProfile(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Profiles.Delete(r.Context(), p.ID); err != nil {
		writeErr(w, r, err)
		return
	}
	noContent(w)
}

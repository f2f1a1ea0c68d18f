package httpserver

import (
	"net/http"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

func (h *Handlers) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// csrf issues (or repeats) the token the client must echo in X-CSRFToken.
func (h *Handlers) csrf(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		token = c.Value
	} else {
		token = uuid.NewString()
	}
	http.SetCookie(w, h.cookie(csrfCookie, token, 365*24*3600, false))
	writeJSON(w, r, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	token, _, err := h.Accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	http.SetCookie(w, h.cookie(sessionCookie, token, int(h.SessionTTL.Seconds()), true))
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Login successful"})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), sessionToken(r)); err != nil {
		writeErr(w, r, err)
		return
	}
	http.SetCookie(w, h.cookie(sessionCookie, "", -1, true))
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var body userBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.Accounts.CreateUser(r.Context(), domain.NewUser{
		Email: body.Email, Password: body.Password, Phone: body.Phone, GroupName: body.GroupName,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toUser(u))
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.Accounts.ListUsers(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out := make([]userDTO, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toUser(mustUser(r)))
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.Accounts.GetUser(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUser(u))
}

// selfOnly resolves the path id and checks it names the caller's own account.
func selfOnly(r *http.Request) (int64, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, err
	}
	if id != mustUser(r).ID {
		return 0, domain.ErrForbidden
	}
	return id, nil
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := selfOnly(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body userBody
	if err := decode(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.Accounts.UpdateUser(r.Context(), id, domain.UserPatch{Email: body.Email, Phone: body.Phone, Password: body.Password})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUser(u))
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := selfOnly(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Accounts.DeleteUser(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	_ = h.Accounts.Logout(r.Context(), sessionToken(r))
	http.SetCookie(w, h.cookie(sessionCookie, "", -1, true))
	noContent(w)
}

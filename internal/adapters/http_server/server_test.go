package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	httpserver "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/app"
	"hotel_booking/internal/storage/memory"
)

// ---------- harness ----------

func newTestServer(t *testing.T, limiter *httpserver.IPLimiter) *httptest.Server {
	t.Helper()
	st := memory.New()
	h := &httpserver.Handlers{
		Accounts:     app.NewAccountService(st, memory.NewSessions(), time.Hour, bcrypt.MinCost),
		Profiles:     app.NewProfileService(st, st),
		Catalog:      app.NewCatalogService(st, nil),
		Queries:      app.NewQueryService(st, nil, time.Minute),
		Search:       app.NewSearchService(st, false),
		Bookings:     app.NewBookingService(st, st, nil),
		LoginLimiter: limiter,
		SessionTTL:   time.Hour,
	}
	srv := httpserver.New(5*time.Second, false)
	srv.MountHandlers(h)
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t    *testing.T
	base string
	hc   *http.Client
	csrf string
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	jar, _ := cookiejar.New(nil)
	return &client{t: t, base: ts.URL, hc: &http.Client{Jar: jar}}
}

// fetchCSRF primes the csrftoken cookie and remembers the header value.
func (c *client) fetchCSRF() {
	c.t.Helper()
	var out struct {
		CSRFToken string `json:"csrfToken"`
	}
	c.do(http.MethodGet, "/api/auth/csrf", nil, http.StatusOK, &out)
	if out.CSRFToken == "" {
		c.t.Fatal("empty csrf token")
	}
	c.csrf = out.CSRFToken
}

func (c *client) send(method, path string, body any, hdr map[string]string) *http.Response {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set("X-CSRFToken", c.csrf)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// do sends a JSON request, checks the status and decodes the body into out.
func (c *client) do(method, path string, body any, want int, out any) {
	c.t.Helper()
	resp := c.send(method, path, body, nil)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		c.t.Fatalf("%s %s: status %d, want %d; body=%s", method, path, resp.StatusCode, want, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.t.Fatalf("%s %s: decode %s: %v", method, path, raw, err)
		}
	}
}

type problem struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

func (c *client) signupAndLogin(email, group string) int64 {
	c.t.Helper()
	var u struct {
		ID     int64    `json:"id"`
		Groups []string `json:"groups"`
	}
	c.do(http.MethodPost, "/api/auth/users", map[string]string{
		"email": email, "password": "pw", "group_name": group,
	}, http.StatusCreated, &u)
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "pw"}, http.StatusOK, nil)
	return u.ID
}

// ---------- tests ----------

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestCSRF_RequiredOnUnsafeMethods(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	var p problem
	c.do(http.MethodPost, "/api/auth/users", map[string]string{"email": "a@b.io"}, http.StatusForbidden, &p)
	if p.Code != "csrf_failed" {
		t.Fatalf("code = %q", p.Code)
	}

	c.fetchCSRF()
	c.csrf = "not-the-cookie"
	c.do(http.MethodPost, "/api/auth/users", map[string]string{"email": "a@b.io"}, http.StatusForbidden, nil)
}

func TestCreateUser_Responses(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.fetchCSRF()

	var raw map[string]any
	c.do(http.MethodPost, "/api/auth/users", map[string]string{
		"email": "ana@example.com", "password": "pw", "group_name": "User",
	}, http.StatusCreated, &raw)
	if _, leaked := raw["password"]; leaked {
		t.Fatal("password must never be echoed")
	}
	if _, leaked := raw["password_hash"]; leaked {
		t.Fatal("password hash must never be echoed")
	}
	groups, _ := raw["groups"].([]any)
	if len(groups) != 1 || groups[0] != "User" {
		t.Fatalf("groups = %v", raw["groups"])
	}

	cases := []struct {
		body map[string]string
		code string
	}{
		{map[string]string{"password": "pw", "group_name": "User"}, "email_required"},
		{map[string]string{"email": "x@example.com", "group_name": "User"}, "password_required"},
		{map[string]string{"email": "ana@example.com", "password": "pw", "group_name": "User"}, "email_in_use"},
		{map[string]string{"email": "x@example.com", "password": "pw"}, "group_name_required"},
		{map[string]string{"email": "x@example.com", "password": "pw", "group_name": "Admins"}, "group_not_found"},
	}
	for _, tc := range cases {
		var p problem
		c.do(http.MethodPost, "/api/auth/users", tc.body, http.StatusBadRequest, &p)
		if p.Code != tc.code {
			t.Fatalf("body %v: code = %q, want %q", tc.body, p.Code, tc.code)
		}
	}
}

func TestBookings_RequireAuth(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	var p problem
	c.do(http.MethodGet, "/api/bookings", nil, http.StatusUnauthorized, &p)
	if p.Code != "not_authenticated" {
		t.Fatalf("code = %q", p.Code)
	}
}

func TestLogin_Failures(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.fetchCSRF()
	c.signupAndLogin("a@b.io", "User")

	var p problem
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.io", "password": "nope"}, http.StatusUnauthorized, &p)
	if p.Code != "invalid_credentials" {
		t.Fatalf("code = %q", p.Code)
	}
	c.do(http.MethodPost, "/api/auth/login", map[string]string{}, http.StatusBadRequest, nil)
}

func TestLogin_Throttled(t *testing.T) {
	ts := newTestServer(t, httpserver.NewIPLimiter(0.001, 1))
	c := newClient(t, ts)
	c.fetchCSRF()
	body := map[string]string{"email": "a@b.io", "password": "pw"}
	c.do(http.MethodPost, "/api/auth/login", body, http.StatusUnauthorized, nil)
	c.do(http.MethodPost, "/api/auth/login", body, http.StatusTooManyRequests, nil)
}

func TestLogin_ThrottleIgnoresForwardedFor(t *testing.T) {
	ts := newTestServer(t, httpserver.NewIPLimiter(0.001, 1))
	c := newClient(t, ts)
	c.fetchCSRF()
	body := map[string]string{"email": "a@b.io", "password": "pw"}

	counts := map[int]int{}
	for i := 0; i < 20; i++ {
		resp := c.send(http.MethodPost, "/api/auth/login", body, map[string]string{
			"X-Forwarded-For": "10.0.0." + strconv.Itoa(i),
			"X-Real-IP":       "10.0.1." + strconv.Itoa(i),
		})
		resp.Body.Close()
		counts[resp.StatusCode]++
	}
	if counts[http.StatusUnauthorized] != 1 || counts[http.StatusTooManyRequests] != 19 {
		t.Fatalf("statuses = %v, want one 401 then 429s", counts)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.fetchCSRF()
	c.signupAndLogin("a@b.io", "User")

	var me struct {
		Email string `json:"email"`
	}
	c.do(http.MethodGet, "/api/auth/users/me", nil, http.StatusOK, &me)
	if me.Email != "a@b.io" {
		t.Fatalf("me = %+v", me)
	}
	c.do(http.MethodPost, "/api/auth/logout", nil, http.StatusOK, nil)
	c.do(http.MethodGet, "/api/auth/users/me", nil, http.StatusUnauthorized, nil)
	c.do(http.MethodPost, "/api/auth/logout", nil, http.StatusUnauthorized, nil)
}

func TestUsers_SelfOnlyWrites(t *testing.T) {
	ts := newTestServer(t, nil)
	a := newClient(t, ts)
	a.fetchCSRF()
	aid := a.signupAndLogin("a@b.io", "User")
	b := newClient(t, ts)
	b.fetchCSRF()
	b.signupAndLogin("b@b.io", "User")

	b.do(http.MethodPatch, "/api/auth/users/"+itoa(aid), map[string]string{"phone": "1"}, http.StatusForbidden, nil)
	b.do(http.MethodDelete, "/api/auth/users/"+itoa(aid), nil, http.StatusForbidden, nil)
	a.do(http.MethodPatch, "/api/auth/users/"+itoa(aid), map[string]string{"phone": "1"}, http.StatusOK, nil)
	a.do(http.MethodGet, "/api/auth/users/999", nil, http.StatusNotFound, nil)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := httpserver.New(time.Second, false)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"golang.org/x/crypto/bcrypt"

	server "hotel_booking/internal/adapters/http_server"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// ---------- helpers ----------

func repoPath(parts ...string) string {
	return filepath.Join(append([]string{"..", ".."}, parts...)...)
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = repoPath("migrations")
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotels"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

type client struct {
	t    *testing.T
	base string
	hc   *http.Client
	csrf string
}

func (c *client) do(method, path string, body any, want int, out any) {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
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
	res, err := c.hc.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != want {
		c.t.Fatalf("%s %s: status %d, want %d; body=%s", method, path, res.StatusCode, want, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.t.Fatalf("decode %s: %v", raw, err)
		}
	}
}

// ---------- the test ----------

// TestHTTP_EndToEnd_Booking runs the real router on MySQL with a redis-backed
// cache and session store, using the catalog fixture the seeder ships with.
func TestHTTP_EndToEnd_Booking(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	rc := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	repo := mysqlrepo.New(db)
	cache := redisad.NewCache(rc)
	accounts := app.NewAccountService(repo, redisad.NewSessions(rc), time.Hour, bcrypt.MinCost)
	catalog := app.NewCatalogService(repo, cache)
	ctx := context.Background()

	// seed from the shipped fixture
	raw, err := os.ReadFile(repoPath("seed", "catalog.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fixture app.SeedCatalog
	if err := json.Unmarshal(raw, &fixture); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	seeder := app.NewSeedService(accounts, catalog, repo, repo)
	ownerID, err := seeder.EnsureOwner(ctx, fixture.Owner)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := seeder.EnsureTypes(ctx, domain.HotelKind, fixture.HotelTypes); err != nil {
		t.Fatalf("hotel types: %v", err)
	}
	if _, err := seeder.EnsureTypes(ctx, domain.RoomKind, fixture.RoomTypes); err != nil {
		t.Fatalf("room types: %v", err)
	}
	for _, h := range fixture.Hotels {
		if _, err := seeder.SeedHotel(ctx, ownerID, h); err != nil {
			t.Fatalf("seed hotel: %v", err)
		}
	}

	srv := server.New(5*time.Second, false)
	srv.MountHandlers(&server.Handlers{
		Accounts:   accounts,
		Profiles:   app.NewProfileService(repo, repo),
		Catalog:    catalog,
		Queries:    app.NewQueryService(repo, cache, time.Minute),
		Search:     app.NewSearchService(repo, false),
		Bookings:   app.NewBookingService(repo, repo, cache),
		SessionTTL: time.Hour,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	jar, _ := cookiejar.New(nil)
	c := &client{t: t, base: ts.URL, hc: &http.Client{Jar: jar}}

	var tok struct {
		CSRFToken string `json:"csrfToken"`
	}
	c.do(http.MethodGet, "/api/auth/csrf", nil, http.StatusOK, &tok)
	c.csrf = tok.CSRFToken

	var user struct {
		ID int64 `json:"id"`
	}
	c.do(http.MethodPost, "/api/auth/users", map[string]string{
		"email": "guest@example.com", "password": "pw", "group_name": "User",
	}, http.StatusCreated, &user)
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "guest@example.com", "password": "pw"}, http.StatusOK, nil)
	c.do(http.MethodPost, "/api/profiles", map[string]string{"username": "guest"}, http.StatusCreated, nil)
	if len(mr.Keys()) == 0 {
		t.Fatal("login should have stored a session in redis")
	}

	type room struct {
		ID            int64  `json:"id"`
		City          string `json:"city"`
		TotalBookings int64  `json:"total_bookings"`
	}
	var found struct {
		Rooms []room `json:"rooms"`
	}
	c.do(http.MethodGet, "/api/hotels/search?city=paris&room_type=suite&show_rooms_only=true", nil, http.StatusOK, &found)
	if len(found.Rooms) != 1 || found.Rooms[0].City != "Paris" {
		t.Fatalf("search rooms = %+v", found.Rooms)
	}
	suite := found.Rooms[0].ID
	path := "/api/rooms/" + strconv.FormatInt(suite, 10)

	// warm the cache
	c.do(http.MethodGet, path, nil, http.StatusOK, nil)
	if !mr.Exists(fmt.Sprintf("room:%d", suite)) {
		t.Fatal("room read should be cached")
	}

	c.do(http.MethodPost, "/api/bookings", map[string]any{
		"user_id": user.ID, "room_id": suite, "start_date": "2030-05-01", "end_date": "2030-05-04", "status": "confirmed",
	}, http.StatusCreated, nil)
	if mr.Exists(fmt.Sprintf("room:%d", suite)) {
		t.Fatal("booking should invalidate the cached room")
	}

	var r room
	c.do(http.MethodGet, path, nil, http.StatusOK, &r)
	if r.TotalBookings != 1 {
		t.Fatalf("total_bookings = %d, want 1", r.TotalBookings)
	}

	var problem struct {
		Code string `json:"code"`
	}
	c.do(http.MethodPost, "/api/bookings", map[string]any{
		"user_id": user.ID, "room_id": suite, "start_date": "2030-05-03", "end_date": "2030-05-06", "status": "active",
	}, http.StatusBadRequest, &problem)
	if problem.Code != "room_already_booked" {
		t.Fatalf("code = %q", problem.Code)
	}

	c.do(http.MethodGet, "/api/hotels/search?city=paris&startDate=2030-05-02&endDate=2030-05-03&show_rooms_only=true", nil, http.StatusOK, &found)
	for _, fr := range found.Rooms {
		if fr.ID == suite {
			t.Fatal("booked suite should not be available in the window")
		}
	}
	if len(found.Rooms) != 2 {
		t.Fatalf("available paris rooms = %d, want 2", len(found.Rooms))
	}

	c.do(http.MethodPost, "/api/auth/logout", nil, http.StatusOK, nil)
	c.do(http.MethodGet, "/api/bookings/me", nil, http.StatusUnauthorized, nil)
}

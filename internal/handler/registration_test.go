package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"

	"github.com/s1res/digital-navigator/internal/config"
	"github.com/s1res/digital-navigator/internal/middleware"
	"github.com/s1res/digital-navigator/internal/repository"
)

const testSecret = "test-secret"

// testApp wires the real handlers, middleware and repositories over an
// SQLite database so route tests exercise the full stack below HTTP.
type testApp struct {
	e  *echo.Echo
	db *sql.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_time_format=sqlite",
		filepath.Join(t.TempDir(), "test.db"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			starts_at DATETIME NOT NULL,
			location TEXT,
			created_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE event_registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (event_id, user_id)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	events := repository.NewEventRepo(db)
	users := repository.NewUserRepo(db)
	regs := repository.NewRegistrationRepo(db)
	cfg := config.Config{JWTSecret: testSecret}
	eh := NewEventHandler(cfg, events, regs)
	rh := NewRegistrationHandler(events, users, regs)

	e := echo.New()
	e.GET("/v1/events", eh.ListEvents)
	e.GET("/v1/events/:id", eh.GetEvent)

	user := e.Group("/v1", middleware.JWTAuth(testSecret))
	user.POST("/events/:id/register", rh.Register)
	user.DELETE("/events/:id/register", rh.Unregister)
	user.GET("/my-registrations", rh.MyRegistrations)

	staff := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole("admin", "superadmin"))
	staff.GET("/events/:id/registrations", rh.EventAttendees)

	super := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole("superadmin"))
	super.POST("/events", eh.CreateEvent)
	super.DELETE("/events/:id", eh.DeleteEvent)

	return &testApp{e: e, db: db}
}

func (a *testApp) seedUser(t *testing.T, username, role string) uint64 {
	t.Helper()
	res, err := a.db.Exec(
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, username+"@example.com", "x", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

func (a *testApp) seedEvent(t *testing.T, title string, startsAt time.Time) uint64 {
	t.Helper()
	res, err := a.db.Exec("INSERT INTO events (title, starts_at) VALUES (?,?)", title, startsAt)
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

func signToken(t *testing.T, sub uint64, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (a *testApp) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "alice", "user")
	eventID := app.seedEvent(t, "Meetup", time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC))
	token := signToken(t, userID, "user")

	// No token: the middleware rejects before the handler runs.
	if rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// Unknown event yields 404, not a foreign key error.
	if rec := app.do(http.MethodPost, "/v1/events/9999/register", token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown event: status = %d, want 404", rec.Code)
	}

	rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), token, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["registration_id"] == nil {
		t.Fatalf("register: missing registration_id in %v", body)
	}

	// Second attempt for the same pair is a conflict.
	rec = app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), token, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d, want 409", rec.Code)
	}
}

func TestUnregisterEndpoint(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "bob", "user")
	eventID := app.seedEvent(t, "Workshop", time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC))
	token := signToken(t, userID, "user")

	if rec := app.do(http.MethodDelete, "/v1/events/9999/register", token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown event: status = %d, want 404", rec.Code)
	}

	// Not registered yet: 400, not 500.
	rec := app.do(http.MethodDelete, fmt.Sprintf("/v1/events/%d/register", eventID), token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unregister before register: status = %d, want 400", rec.Code)
	}

	if rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), token, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", rec.Code)
	}

	rec = app.do(http.MethodDelete, fmt.Sprintf("/v1/events/%d/register", eventID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unregister: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Idempotent at the ledger, 400 at the API.
	rec = app.do(http.MethodDelete, fmt.Sprintf("/v1/events/%d/register", eventID), token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("repeat unregister: status = %d, want 400", rec.Code)
	}
}

func TestMyRegistrationsEndpoint(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "carol", "user")
	token := signToken(t, userID, "user")

	june := app.seedEvent(t, "June Fair", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	may := app.seedEvent(t, "May Fair", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	for _, id := range []uint64{june, may} {
		if rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", id), token, ""); rec.Code != http.StatusCreated {
			t.Fatalf("register %d: status = %d", id, rec.Code)
		}
	}

	rec := app.do(http.MethodGet, "/v1/my-registrations", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("my-registrations: status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", body["items"])
	}
	firstTitle := items[0].(map[string]any)["title"]
	if firstTitle != "May Fair" {
		t.Fatalf("expected May Fair first, got %v", firstTitle)
	}
}

func TestEventAttendeesEndpoint(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "dan", "user")
	adminID := app.seedUser(t, "admin", "admin")
	eventID := app.seedEvent(t, "Summit", time.Date(2025, 9, 30, 9, 0, 0, 0, time.UTC))

	userToken := signToken(t, userID, "user")
	adminToken := signToken(t, adminID, "admin")

	if rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), userToken, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", rec.Code)
	}

	// Plain users cannot read the roster.
	if rec := app.do(http.MethodGet, fmt.Sprintf("/v1/events/%d/registrations", eventID), userToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user roster: status = %d, want 403", rec.Code)
	}

	rec := app.do(http.MethodGet, fmt.Sprintf("/v1/events/%d/registrations", eventID), adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin roster: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if total, ok := body["total"].(float64); !ok || total != 1 {
		t.Fatalf("expected total 1, got %v", body["total"])
	}
	items := body["items"].([]any)
	if got := items[0].(map[string]any)["username"]; got != "dan" {
		t.Fatalf("expected attendee dan, got %v", got)
	}

	if rec := app.do(http.MethodGet, "/v1/events/9999/registrations", adminToken, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown event roster: status = %d, want 404", rec.Code)
	}
}

func TestPublicEventListing(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "erin", "user")
	eventID := app.seedEvent(t, "Open Day", time.Date(2025, 10, 5, 11, 0, 0, 0, time.UTC))
	token := signToken(t, userID, "user")

	if rec := app.do(http.MethodPost, fmt.Sprintf("/v1/events/%d/register", eventID), token, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", rec.Code)
	}

	// Guest view carries the count but no per-user flag.
	rec := app.do(http.MethodGet, fmt.Sprintf("/v1/events/%d", eventID), "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("guest get event: status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if count, ok := body["registration_count"].(float64); !ok || count != 1 {
		t.Fatalf("expected registration_count 1, got %v", body["registration_count"])
	}
	if _, present := body["is_registered"]; present {
		t.Fatalf("guest view must not carry is_registered, got %v", body)
	}

	// Authenticated view adds the caller's flag.
	rec = app.do(http.MethodGet, fmt.Sprintf("/v1/events/%d", eventID), token, "")
	body = decodeBody(t, rec)
	if flag, ok := body["is_registered"].(bool); !ok || !flag {
		t.Fatalf("expected is_registered true, got %v", body["is_registered"])
	}

	// Another user sees false, not absent.
	otherID := app.seedUser(t, "frank", "user")
	rec = app.do(http.MethodGet, fmt.Sprintf("/v1/events/%d", eventID), signToken(t, otherID, "user"), "")
	body = decodeBody(t, rec)
	if flag, ok := body["is_registered"].(bool); !ok || flag {
		t.Fatalf("expected is_registered false, got %v", body["is_registered"])
	}

	if rec := app.do(http.MethodGet, "/v1/events/9999", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown event: status = %d, want 404", rec.Code)
	}
}

func TestEventAdminEndpoints(t *testing.T) {
	app := newTestApp(t)
	superID := app.seedUser(t, "root", "superadmin")
	adminID := app.seedUser(t, "staff", "admin")
	superToken := signToken(t, superID, "superadmin")
	adminToken := signToken(t, adminID, "admin")

	// Only superadmins create events.
	payload := `{"title":"New Year Party","starts_at":"2025-12-31T20:00:00Z","location":"hall A"}`
	if rec := app.do(http.MethodPost, "/v1/events", adminToken, payload); rec.Code != http.StatusForbidden {
		t.Fatalf("admin create: status = %d, want 403", rec.Code)
	}
	rec := app.do(http.MethodPost, "/v1/events", superToken, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	id := uint64(body["id"].(float64))

	// Bad timestamps are rejected up front.
	if rec := app.do(http.MethodPost, "/v1/events", superToken, `{"title":"x","starts_at":"tomorrow"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad starts_at: status = %d, want 400", rec.Code)
	}

	rec = app.do(http.MethodDelete, fmt.Sprintf("/v1/events/%d", id), superToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if rec := app.do(http.MethodDelete, fmt.Sprintf("/v1/events/%d", id), superToken, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: status = %d, want 404", rec.Code)
	}
}

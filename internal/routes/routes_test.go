package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/selfgrowth/tracker/internal/app"
	"github.com/selfgrowth/tracker/internal/config"
	"github.com/selfgrowth/tracker/internal/testutil"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:            "Growth Tracker",
		AppEnv:             "development",
		AppURL:             "http://localhost:5000",
		ClientURL:          "http://localhost:3000",
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		EmailFrom:          "noreply@example.com",
		ReminderInterval:   time.Minute,
		StreakFallbackDays: 30,
	}

	a, err := app.NewWithDB(cfg, testutil.NewDB(t), testutil.Clock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("NewWithDB() error = %v", err)
	}

	srv := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	return d
}

func TestHabitFlow(t *testing.T) {
	srv := newServer(t)

	resp, _ := call(t, srv, http.MethodGet, "/api/habits", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous list status = %d, want 401", resp.StatusCode)
	}

	resp, body := call(t, srv, http.MethodPost, "/api/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d (%v)", resp.StatusCode, body)
	}
	token := data(t, body)["token"].(string)

	resp, _ = call(t, srv, http.MethodGet, "/api/auth/profile", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("profile status = %d", resp.StatusCode)
	}

	resp, body = call(t, srv, http.MethodPost, "/api/habits", token, `{"name":"Meditate"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d (%v)", resp.StatusCode, body)
	}
	habitID := data(t, body)["habit"].(map[string]any)["id"].(string)

	for _, day := range []string{"2024-03-09", "2024-03-10"} {
		resp, body = call(t, srv, http.MethodPost, "/api/habits/"+habitID+"/log", token,
			`{"completed":true,"date":"`+day+`"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("log %s status = %d (%v)", day, resp.StatusCode, body)
		}
	}

	resp, body = call(t, srv, http.MethodGet, "/api/habits/"+habitID+"/streak", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("streak status = %d", resp.StatusCode)
	}
	streak := data(t, body)
	if streak["streak"] != float64(2) || streak["tier"] != "exact" {
		t.Errorf("streak = %v, want 2 exact", streak)
	}

	resp, body = call(t, srv, http.MethodGet, "/api/dashboard/stats", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	stats := data(t, body)["stats"].(map[string]any)
	if stats["completion_rate"] != float64(100) {
		t.Errorf("stats = %v", stats)
	}

	resp, body = call(t, srv, http.MethodPut, "/api/users/profile", token, `{"username":"alicia"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile status = %d (%v)", resp.StatusCode, body)
	}

	resp, _ = call(t, srv, http.MethodDelete, "/api/users/account", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete account status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodGet, "/api/habits/"+habitID, token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("token of deleted account status = %d, want 401", resp.StatusCode)
	}
}

func TestPublicRoutes(t *testing.T) {
	srv := newServer(t)

	resp, body := call(t, srv, http.MethodGet, "/api/health", "", "")
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Errorf("health = %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}

	resp, body = call(t, srv, http.MethodGet, "/api/nothing-here", "", "")
	if resp.StatusCode != http.StatusNotFound || body["success"] != false {
		t.Errorf("fallback = %d %v", resp.StatusCode, body)
	}

	resp, _ = call(t, srv, http.MethodGet, "/api/habits", "not-a-jwt", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("invalid token status = %d, want 401", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/habits", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

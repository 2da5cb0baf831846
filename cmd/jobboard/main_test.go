package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type cliFixture struct {
	apiURL      string
	sessionFile string
	adminCalls  atomic.Int32
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("JOBBOARD_PASSWORD", "")

	f := &cliFixture{sessionFile: filepath.Join(t.TempDir(), "token.json")}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "POST /api/auth/login":
			var body struct{ Email string }
			json.NewDecoder(r.Body).Decode(&body)
			role := "user"
			if strings.HasPrefix(body.Email, "admin") {
				role = "admin"
			}
			json.NewEncoder(w).Encode(map[string]any{
				"token": role + "-tok",
				"user":  map[string]string{"id": "1", "name": "Ada", "email": body.Email, "role": role},
			})
		case "GET /api/jobs/admin/review":
			f.adminCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer admin-tok" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Admin access required"})
				return
			}
			json.NewEncoder(w).Encode([]map[string]any{{"_id": "p1", "JobTitle": "Go Dev", "Company": "Acme", "Status": "pending_review"}})
		case "PATCH /api/jobs/admin/decision/p1":
			f.adminCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		case "GET /api/jobs":
			json.NewEncoder(w).Encode(map[string]any{"jobs": []map[string]any{
				{"_id": "j1", "JobTitle": "Go Dev", "Company": "Acme"},
				{"_id": "j2", "JobTitle": "SRE", "Company": "Globex"},
			}})
		case "PATCH /api/jobs/j1/feedback":
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		case "PATCH /api/jobs/j2/feedback":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "feedback store down"})
		case "GET /api/jobs/directory":
			json.NewEncoder(w).Encode([]map[string]any{
				{"companyName": "Acme", "openRoles": 3, "cities": []string{"Berlin"}, "source": "scraped"},
				{"companyName": "Globex", "openRoles": 1, "cities": []string{"Hamburg"}, "source": "manual"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	}))
	t.Cleanup(server.Close)
	f.apiURL = server.URL + "/api"
	return f
}

func (f *cliFixture) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", f.apiURL, "--session", f.sessionFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReviewRequiresLogin(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("review", "list")
	if !errors.Is(err, errAccessDenied) || !strings.Contains(err.Error(), "/login") {
		t.Fatalf("review list logged out = %v, want access denied to /login", err)
	}
	if f.adminCalls.Load() != 0 {
		t.Error("denied command reached the API")
	}
}

func TestReviewRequiresAdmin(t *testing.T) {
	f := newCLIFixture(t)
	if _, err := f.run("login", "--email", "user@example.com", "--password", "x"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, err := f.run("review", "accept", "p1")
	if !errors.Is(err, errAccessDenied) || !strings.Contains(err.Error(), "redirect to /)") {
		t.Fatalf("review accept as user = %v, want redirect home", err)
	}
	if f.adminCalls.Load() != 0 {
		t.Error("denied command reached the API")
	}
}

func TestAdminSessionFlow(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("login", "--email", "admin@example.com", "--password", "x")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out, "landing page /review") {
		t.Errorf("login output = %q", out)
	}

	out, err = f.run("whoami")
	if err != nil || !strings.Contains(out, "role=admin") {
		t.Errorf("whoami = %q, %v", out, err)
	}

	out, err = f.run("review", "list")
	if err != nil {
		t.Fatalf("review list failed: %v", err)
	}
	if !strings.Contains(out, "p1") || !strings.Contains(out, "Go Dev") {
		t.Errorf("review list output = %q", out)
	}

	out, err = f.run("review", "accept", "p1")
	if err != nil || !strings.Contains(out, "accepted p1") {
		t.Errorf("review accept = %q, %v", out, err)
	}
	if !strings.Contains(out, "no jobs") {
		t.Errorf("queue after accept should be empty, got %q", out)
	}

	if _, err := f.run("logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	out, _ = f.run("whoami")
	if !strings.Contains(out, "not logged in") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestCompaniesFilters(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("companies", "--city", "Hamburg")
	if err != nil {
		t.Fatalf("companies failed: %v", err)
	}
	if !strings.Contains(out, "Globex") || strings.Contains(out, "Acme") {
		t.Errorf("companies --city Hamburg = %q", out)
	}

	out, _ = f.run("companies", "--search", "ACM")
	if !strings.Contains(out, "Acme") || strings.Contains(out, "Globex") {
		t.Errorf("companies --search ACM = %q", out)
	}
}

func TestFeedback(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("feedback", "j1", "down")
	if err != nil {
		t.Fatalf("feedback down failed: %v", err)
	}
	if !strings.Contains(out, "voted down on j1") || !strings.Contains(out, "j2") {
		t.Errorf("feedback down output = %q", out)
	}
	if strings.Contains(out, "Go Dev") {
		t.Errorf("down-voted job still listed: %q", out)
	}

	out, err = f.run("feedback", "j2", "down")
	if err == nil {
		t.Fatal("failed feedback returned no error")
	}
	if !strings.Contains(out, "j2") || strings.Contains(out, "voted") {
		t.Errorf("failed down-vote should keep j2 listed, got %q", out)
	}

	if _, err := f.run("feedback", "j1", "sideways"); err == nil || !strings.Contains(err.Error(), "up or down") {
		t.Errorf("feedback sideways = %v", err)
	}
}

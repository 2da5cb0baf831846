package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL + "/api"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		if _, err := New(Config{BaseURL: "http://localhost:5000/api"}); err != nil {
			t.Fatalf("New failed: %v", err)
		}
	})
	t.Run("empty URL", func(t *testing.T) {
		if _, err := New(Config{}); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})
	t.Run("relative URL", func(t *testing.T) {
		if _, err := New(Config{BaseURL: "/api"}); err == nil {
			t.Fatal("expected error for URL without host")
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("login must not carry a bearer, got %q", got)
			}
			var body dtos.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Email != "admin@example.com" || body.Password != "secret" {
				t.Errorf("unexpected credentials: %+v", body)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "tok-1",
				"user":  map[string]any{"id": "u1", "name": "Ada", "role": "admin"},
			})
		})

		resp, err := client.Login(context.Background(), dtos.LoginRequest{Email: "admin@example.com", Password: "secret"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token != "tok-1" || resp.User.Role != models.RoleAdmin {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("server error message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		})
		_, err := client.Login(context.Background(), dtos.LoginRequest{Email: "a@b.c", Password: "x"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
			t.Errorf("unexpected error: %+v", apiErr)
		}
		if got := UserMessage(err, "Login failed"); got != "Invalid credentials" {
			t.Errorf("UserMessage = %q", got)
		}
		if !IsUnauthorized(err) {
			t.Error("IsUnauthorized should be true for 401")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1"})
		})
		_, err := client.Login(context.Background(), dtos.LoginRequest{Email: "a@b.c", Password: "x"})
		if !errors.Is(err, ErrInvalidAuthResponse) {
			t.Fatalf("expected ErrInvalidAuthResponse, got %v", err)
		}
	})
}

func TestListJobs(t *testing.T) {
	t.Run("envelope with query", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/jobs" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "100" {
				t.Errorf("limit = %q, want 100", got)
			}
			if got := r.URL.Query().Get("company"); got != "Zalando SE" {
				t.Errorf("company = %q", got)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"jobs":      []map[string]any{{"_id": "j1", "JobTitle": "Go Engineer", "Company": "Zalando SE"}},
				"totalJobs": 1,
			})
		})
		jobs, err := client.ListJobs(context.Background(), JobQuery{Company: "Zalando SE", Limit: 100})
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != "j1" || jobs[0].Title != "Go Engineer" {
			t.Errorf("unexpected jobs: %+v", jobs)
		}
	})

	t.Run("zero query omits params", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("expected no query, got %q", r.URL.RawQuery)
			}
			writeJSON(w, http.StatusOK, []any{})
		})
		jobs, err := client.ListJobs(context.Background(), JobQuery{})
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("expected empty list, got %d", len(jobs))
		}
	})

	t.Run("object without jobs", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"error": "db down"})
		})
		_, err := client.ListJobs(context.Background(), JobQuery{})
		if !errors.Is(err, ErrUnexpectedShape) {
			t.Fatalf("expected ErrUnexpectedShape, got %v", err)
		}
	})

	t.Run("envelope edge cases", func(t *testing.T) {
		cases := []struct {
			body      string
			wantShape bool
		}{
			{`{"jobs":[],"totalJobs":0}`, false},
			{`{"jobs":null}`, true},
			{`{"jobs":"none"}`, true},
		}
		for _, c := range cases {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, c.body)
			})
			jobs, err := client.ListJobs(context.Background(), JobQuery{})
			if got := errors.Is(err, ErrUnexpectedShape); got != c.wantShape {
				t.Errorf("%s: err = %v, want shape error %v", c.body, err, c.wantShape)
			}
			if !c.wantShape && (jobs == nil || len(jobs) != 0) {
				t.Errorf("%s: jobs = %#v, want empty list", c.body, jobs)
			}
		}
	})
}

func TestListCompanies_NonArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Failed to aggregate"})
	})
	_, err := client.ListCompanies(context.Background())
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestListCompanies_Array(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"companyName": "Zalando", "openRoles": 4, "cities": []string{"Berlin"}, "domain": "zalando.de", "source": "scraped"},
		})
	})
	companies, err := client.ListCompanies(context.Background())
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if len(companies) != 1 || companies[0].Name != "Zalando" || companies[0].Source != models.SourceScraped {
		t.Errorf("unexpected companies: %+v", companies)
	}
}

func TestBearerHeader(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"jobs": []any{}})
	})

	if _, err := client.PendingJobs(context.Background(), "tok-admin"); err != nil {
		t.Fatalf("PendingJobs failed: %v", err)
	}
	if _, err := client.PendingJobs(context.Background(), ""); err != nil {
		t.Fatalf("PendingJobs failed: %v", err)
	}
	if len(seen) != 2 || seen[0] != "Bearer tok-admin" || seen[1] != "" {
		t.Errorf("Authorization headers = %q", seen)
	}
}

func TestDecideAndFeedbackBodies(t *testing.T) {
	type call struct {
		method, path, body string
	}
	var calls []call
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(raw)})
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	ctx := context.Background()
	if err := client.Decide(ctx, "t", "j1", "accept"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if err := client.SetFeedback(ctx, "t", "j2", nil); err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}
	up := "up"
	if err := client.SetFeedback(ctx, "", "j3", &up); err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}

	want := []call{
		{http.MethodPatch, "/api/jobs/admin/decision/j1", `{"decision":"accept"}`},
		{http.MethodPatch, "/api/jobs/j2/feedback", `{"status":null}`},
		{http.MethodPatch, "/api/jobs/j3/feedback", `{"status":"up"}`},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestDeleteCompanies(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()
	if err := client.DeleteManualCompany(ctx, "t", "c1"); err != nil {
		t.Fatalf("DeleteManualCompany failed: %v", err)
	}
	if err := client.DeleteScrapedCompany(ctx, "t", "Delivery Hero"); err != nil {
		t.Fatalf("DeleteScrapedCompany failed: %v", err)
	}
	if paths[0] != "/api/jobs/companies/c1?" || paths[1] != "/api/jobs/company?name=Delivery+Hero" {
		t.Errorf("unexpected paths %q", paths)
	}
}

func TestUserMessage_Fallbacks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "<html>boom</html>")
	})
	err := client.Analyze(context.Background(), "", "j1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.FromServer {
		t.Error("HTML body must not count as a server message")
	}
	if got := UserMessage(err, "Analysis failed."); got != "Analysis failed." {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "Network error"); got != "Network error" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(nil, "x"); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/auth"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

type nopSlot struct{}

func (nopSlot) Load(context.Context) (models.Session, error) { return models.Session{}, auth.ErrNoSession }
func (nopSlot) Save(context.Context, models.Session) error { return nil }
func (nopSlot) Clear(context.Context) error { return nil }

func TestRequireSessionWhileLoading(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		// Never hydrated.
		c.Set(storeKey, auth.NewStore(nopSlot{}))
	})
	r.GET("/review", RequireSession(true), func(c *gin.Context) {
		t.Error("handler ran while the session was loading")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/review", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if rec.Body.String() != `{"status":"loading"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSessionReplacesBadCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotID string
	slots := func(id string) auth.Slot {
		gotID = id
		return nopSlot{}
	}
	r := gin.New()
	r.Use(Session(slots, "token", 0, false))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if gotID == "../../etc/passwd" || len(gotID) != 36 {
		t.Errorf("slot id = %q, want a fresh uuid", gotID)
	}
}

func TestSessionCookieFlags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, secure := range []bool{false, true} {
		r := gin.New()
		r.Use(Session(func(string) auth.Slot { return nopSlot{} }, "token", time.Hour, secure))
		r.GET("/", func(c *gin.Context) {
			if SessionID(c) == "" {
				t.Error("SessionID empty inside Session")
			}
			c.Status(http.StatusNoContent)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("cookies = %v", cookies)
		}
		c := cookies[0]
		if c.Secure != secure || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
			t.Errorf("secure=%v: cookie = %+v", secure, c)
		}
	}
}

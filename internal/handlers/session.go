package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justsurfingit/jobboard-web/internal/auth"
)

const (
	storeKey     = "session.store"
	sessionIDKey = "session.id"
)

// Session gives every request an auth.Store for its browser. The browser is
// identified by a random UUID cookie; anything that does not parse as a
// UUID is replaced with a fresh one. secure marks the cookie HTTPS-only.
func Session(slots auth.SlotFactory, cookieName string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if _, parseErr := uuid.Parse(id); err != nil || parseErr != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", secure, true)

		store := auth.NewStore(slots(id))
		store.Hydrate(c.Request.Context())
		c.Set(storeKey, store)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// StoreFrom returns the store Session put on the context.
func StoreFrom(c *gin.Context) *auth.Store {
	return c.MustGet(storeKey).(*auth.Store)
}

// SessionID returns the browser's session id, or "" outside Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// RequireSession runs the access guard for a page. While the session is
// still loading it answers 202 with a loading marker instead of redirecting.
func RequireSession(requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := auth.Decide(StoreFrom(c).State(), requireAdmin)
		switch d.Outcome {
		case auth.Allow:
			c.Next()
		case auth.Loading:
			c.AbortWithStatusJSON(http.StatusAccepted, gin.H{"status": "loading"})
		default:
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
		}
	}
}

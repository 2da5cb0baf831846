package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/auth"
	"github.com/justsurfingit/jobboard-web/internal/dtos"
)

// AuthAPI exchanges credentials for a session.
type AuthAPI interface {
	Login(ctx context.Context, req dtos.LoginRequest) (*dtos.AuthResponse, error)
	Signup(ctx context.Context, req dtos.SignupRequest) (*dtos.AuthResponse, error)
}

// AuthHandler serves login, signup and logout. Every change of identity
// drops the browser's workspace so no list outlives the account it was
// loaded for.
type AuthHandler struct {
	API        AuthAPI
	Workspaces *Workspaces
}

func NewAuthHandler(api AuthAPI, workspaces *Workspaces) *AuthHandler {
	return &AuthHandler{API: api, Workspaces: workspaces}
}

// Login is POST /login. Admins land on the review queue, everyone else on
// the home page.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login form: " + err.Error()})
		return
	}
	resp, err := h.API.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	store := StoreFrom(c)
	h.Workspaces.Drop(SessionID(c))
	if err := store.Login(c.Request.Context(), resp.Token, resp.User); err != nil {
		slog.Error("persist session after login failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save session"})
		return
	}
	c.Redirect(http.StatusSeeOther, auth.LandingPath(store.State()))
}

// Signup is POST /signup. A new account is logged in straight away.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup form: " + err.Error()})
		return
	}
	resp, err := h.API.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Signup failed")
		return
	}
	h.Workspaces.Drop(SessionID(c))
	if err := StoreFrom(c).Login(c.Request.Context(), resp.Token, resp.User); err != nil {
		slog.Error("persist session after signup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save session"})
		return
	}
	c.Redirect(http.StatusSeeOther, auth.HomePath)
}

// Logout is POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Workspaces.Drop(SessionID(c))
	if err := StoreFrom(c).Logout(c.Request.Context()); err != nil {
		slog.Error("clear session on logout failed", "err", err)
	}
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
}

// Me is GET /me: the guard state as the browser should see it.
func (h *AuthHandler) Me(c *gin.Context) {
	st := StoreFrom(c).State()
	c.JSON(http.StatusOK, gin.H{
		"isLoading":       st.IsLoading,
		"isAuthenticated": st.IsAuthenticated,
		"isAdmin":         st.IsAdmin,
		"user":            st.User,
	})
}

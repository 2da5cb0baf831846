// Package auth holds the client-side session: who is logged in, where that
// is persisted, and which pages that identity may open.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// ErrNoSession is returned by a Slot that holds nothing.
var ErrNoSession = errors.New("no session")

// ErrInvalidSession is returned when a login carries a token without a user
// or a user without a token.
var ErrInvalidSession = errors.New("session needs both a token and a user")

// Slot is one named storage location for a session.
type Slot interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// State is a point-in-time view of a Store.
type State struct {
	IsLoading       bool
	IsAuthenticated bool
	IsAdmin         bool
	User            *models.User
}

// Store is the single source of truth for who is logged in. It starts in
// the loading state until Hydrate runs.
type Store struct {
	slot Slot

	mu      sync.RWMutex
	session *models.Session
	loading bool
}

// NewStore returns a Store backed by slot, still loading.
func NewStore(slot Slot) *Store {
	return &Store{slot: slot, loading: true}
}

// Hydrate reads the persisted session. Any failure leaves the store logged
// out; loading ends either way.
func (s *Store) Hydrate(ctx context.Context) {
	session, err := s.slot.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.session = nil

	switch {
	case errors.Is(err, ErrNoSession):
		return
	case err != nil:
		slog.Warn("session hydrate failed, treating as logged out", "err", err)
		return
	case session.Token == "" || session.User == nil:
		slog.Warn("persisted session is incomplete, ignoring it")
		return
	}
	s.session = &session
}

// Login stores token and user together and persists them.
func (s *Store) Login(ctx context.Context, token string, user *models.User) error {
	if token == "" || user == nil {
		return ErrInvalidSession
	}
	u := *user
	session := models.Session{Token: token, User: &u}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slot.Save(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.session = &session
	s.loading = false
	return nil
}

// Logout clears the session in memory and in the slot. The in-memory
// session is dropped even when the slot cannot be cleared.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.loading = false
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// State returns the current flags.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{IsLoading: s.loading}
	if s.session != nil {
		u := *s.session.User
		st.User = &u
		st.IsAuthenticated = true
		st.IsAdmin = u.Role == models.RoleAdmin
	}
	return st
}

// Token returns the bearer credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

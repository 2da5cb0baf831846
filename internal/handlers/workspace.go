package handlers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/justsurfingit/jobboard-web/internal/services"
)

const (
	// DefaultWorkspaceLimit caps how many browsers keep live lists at once.
	DefaultWorkspaceLimit = 4096
	// DefaultWorkspaceIdle is how long an untouched workspace is kept.
	DefaultWorkspaceIdle = 30 * time.Minute
)

// sessionToken is the token source a workspace's services read. It is
// refreshed from the request's Store before every use.
type sessionToken struct {
	v atomic.Pointer[string]
}

func (t *sessionToken) Token() string {
	if p := t.v.Load(); p != nil {
		return *p
	}
	return ""
}

func (t *sessionToken) set(token string) {
	t.v.Store(&token)
}

// workspace is the state one browser keeps between requests: the feed and
// moderation lists that optimistic updates, rollbacks and stale-response
// checks act on.
type workspace struct {
	token      *sessionToken
	feed       *services.FeedService
	moderation *services.ModerationService
}

// Workspaces keeps one workspace per session id. Entries expire after
// they have been idle for the configured time; the least recently used
// entry is evicted once the limit is reached.
type Workspaces struct {
	api   API
	mu    sync.Mutex
	cache *expirable.LRU[string, *workspace]
}

func NewWorkspaces(api API, limit int, idle time.Duration) *Workspaces {
	if limit <= 0 {
		limit = DefaultWorkspaceLimit
	}
	if idle <= 0 {
		idle = DefaultWorkspaceIdle
	}
	return &Workspaces{api: api, cache: expirable.NewLRU[string, *workspace](limit, nil, idle)}
}

// get returns the workspace for id, creating it on first use. Re-adding
// the entry restarts its idle timer.
func (w *Workspaces) get(id, token string) *workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	ws, ok := w.cache.Get(id)
	if !ok {
		tok := &sessionToken{}
		ws = &workspace{
			token:      tok,
			feed:       services.NewFeedService(w.api, tok),
			moderation: services.NewModerationService(w.api, tok),
		}
	}
	ws.token.set(token)
	w.cache.Add(id, ws)
	return ws
}

// Drop forgets the workspace for id. Called when the session changes hands.
func (w *Workspaces) Drop(id string) {
	if w == nil {
		return
	}
	w.cache.Remove(id)
}

// Len reports how many workspaces are live.
func (w *Workspaces) Len() int {
	return w.cache.Len()
}

package services

import (
	"slices"
	"sync"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// TokenSource yields the bearer credential for the current session.
// *auth.Store satisfies it.
type TokenSource interface {
	Token() string
}

// jobList is a locally held copy of a job list. Every mutation returns an
// undo func so an optimistic change can be reverted when the API refuses it.
type jobList struct {
	mu    sync.Mutex
	items []models.Job
}

func (l *jobList) set(items []models.Job) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
}

// setIf replaces the list only when ok() still holds under the lock.
func (l *jobList) setIf(ok func() bool, items []models.Job) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !ok() {
		return false
	}
	l.items = slices.Clone(items)
	return true
}

func (l *jobList) snapshot() []models.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Job, len(l.items))
	copy(out, l.items)
	return out
}

func (l *jobList) indexOf(id string) int {
	return slices.IndexFunc(l.items, func(j models.Job) bool { return j.ID == id })
}

func (l *jobList) get(id string) (models.Job, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return models.Job{}, false
}

// remove takes the job out. Undo puts it back at its old position unless
// something else already re-added it.
func (l *jobList) remove(id string) (undo func(), found bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return func() {}, false
	}
	removed := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.indexOf(removed.ID) >= 0 {
			return
		}
		at := min(i, len(l.items))
		l.items = slices.Insert(l.items, at, removed)
	}, true
}

// update edits the job in place. Undo restores the previous value if the
// job is still in the list.
func (l *jobList) update(id string, edit func(*models.Job)) (undo func(), found bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return func() {}, false
	}
	previous := l.items[i]
	edit(&l.items[i])

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if j := l.indexOf(previous.ID); j >= 0 {
			l.items[j] = previous
		}
	}, true
}

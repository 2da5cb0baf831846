package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// TokenFileName is the fixed name of the persisted session slot.
const TokenFileName = "token.json"

// FileSlot keeps the session in a JSON file.
type FileSlot struct {
	path string
}

// NewFileSlot returns the slot <dir>/token.json.
func NewFileSlot(dir string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, TokenFileName)}
}

// NewFileSlotAt returns a slot at an explicit path.
func NewFileSlotAt(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path is the file backing the slot.
func (s *FileSlot) Path() string { return s.path }

// Retrieves a session from the file.
func (s *FileSlot) Load(_ context.Context) (models.Session, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Session{}, ErrNoSession
		}
		return models.Session{}, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()
	var session models.Session
	if err := json.NewDecoder(f).Decode(&session); err != nil {
		return models.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	return session, nil
}

// Saves a session to the file, readable by the owner only.
func (s *FileSlot) Save(_ context.Context, session models.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileSlot) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// FileSlots hands out one file slot per browser session id under dir.
// Ids must already be validated; they become file names.
func FileSlots(dir string) SlotFactory {
	return func(id string) Slot {
		return NewFileSlotAt(filepath.Join(dir, id+".json"))
	}
}

// DeleteStaleSessionFiles removes the per-browser files under dir that were
// last written before cutoff, including leftovers of interrupted saves.
// Only files named after a session id are touched.
func DeleteStaleSessionFiles(dir string, cutoff time.Time) (int64, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	var removed int64
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !isSessionFileName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // gone since ReadDir
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", e.Name(), err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func isSessionFileName(name string) bool {
	name = strings.TrimSuffix(name, ".tmp")
	id, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

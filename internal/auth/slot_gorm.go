package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// GormSlot keeps a session as one row of the web_sessions table.
type GormSlot struct {
	db  *gorm.DB
	id  string
	ttl time.Duration
	now func() time.Time
}

// GormSlots hands out one GormSlot per browser session id.
func GormSlots(db *gorm.DB, ttl time.Duration) SlotFactory {
	return func(id string) Slot {
		return &GormSlot{db: db, id: id, ttl: ttl, now: time.Now}
	}
}

func (s *GormSlot) Load(ctx context.Context) (models.Session, error) {
	var row models.WebSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", s.id, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session %s: %w", s.id, err)
	}

	session := models.Session{Token: row.Token}
	if row.UserJSON != "" {
		var user models.User
		if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
			return models.Session{}, fmt.Errorf("decode session user %s: %w", s.id, err)
		}
		session.User = &user
	}
	return session, nil
}

func (s *GormSlot) Save(ctx context.Context, session models.Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	row := models.WebSession{
		ID:        s.id,
		Token:     session.Token,
		UserJSON:  string(userJSON),
		ExpiresAt: s.now().Add(s.ttl),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "user_json", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.id, err)
	}
	return nil
}

func (s *GormSlot) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&models.WebSession{}, "id = ?", s.id).Error; err != nil {
		return fmt.Errorf("delete session %s: %w", s.id, err)
	}
	return nil
}

// DeleteExpiredSessions removes every row past its expiry and returns how
// many went.
func DeleteExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.WebSession{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// SlotFactory returns the slot for one browser session id.
type SlotFactory func(id string) Slot

const redisKeyPrefix = "jobboard:session:"

// RedisSlot keeps a session under a single key with a sliding TTL.
type RedisSlot struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// RedisSlots hands out one RedisSlot per browser session id.
func RedisSlots(rdb *redis.Client, ttl time.Duration) SlotFactory {
	return func(id string) Slot {
		return &RedisSlot{rdb: rdb, key: redisKeyPrefix + id, ttl: ttl}
	}
}

func (s *RedisSlot) Load(ctx context.Context) (models.Session, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session %s: %w", s.key, err)
	}
	// Reading a session keeps it alive.
	if err := s.rdb.Expire(ctx, s.key, s.ttl).Err(); err != nil {
		return models.Session{}, fmt.Errorf("redis expire %s: %w", s.key, err)
	}
	return session, nil
}

func (s *RedisSlot) Save(ctx context.Context, session models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// internal/store/redis.go
//
// Redis implementation of the Store interface, for deployments where
// progress must be shared across server instances.
//
// Key layout mirrors the flat progress keys under a namespace prefix:
//
//   brainbox:<owner>:score_<LANGUAGE>
//   brainbox:<owner>:game_completed_<LANGUAGE>_<date>
//   brainbox:<owner>:game_result_<LANGUAGE>_<date>
//
// RecordResult idempotence uses SETNX on the completion key: only the caller
// that wins the SETNX goes on to write the outcome and INCRBY the score.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

const redisPrefix = "brainbox"

// redisStore persists progress in Redis.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: redis ping: %w", err)
	}
	return &redisStore{client: client}, nil
}

func redisKey(owner, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisPrefix, owner, key)
}

func (s *redisStore) Score(ctx context.Context, owner string, lang catalog.Language) (int, error) {
	n, err := s.client.Get(ctx, redisKey(owner, scoreKey(lang))).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *redisStore) AddScore(ctx context.Context, owner string, lang catalog.Language, delta int) error {
	return s.client.IncrBy(ctx, redisKey(owner, scoreKey(lang)), int64(delta)).Err()
}

func (s *redisStore) Completed(ctx context.Context, owner string, lang catalog.Language, date string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(owner, completedKey(lang, date))).Result()
	return n > 0, err
}

func (s *redisStore) Result(ctx context.Context, owner string, lang catalog.Language, date string) (bool, bool, error) {
	v, err := s.client.Get(ctx, redisKey(owner, resultKey(lang, date))).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == "true", true, nil
}

func (s *redisStore) RecordResult(ctx context.Context, owner string, lang catalog.Language, date string, won bool, delta int) (bool, error) {
	set, err := s.client.SetNX(ctx, redisKey(owner, completedKey(lang, date)), "true", 0).Result()
	if err != nil {
		return false, err
	}
	if !set {
		return false, nil
	}
	if err := s.client.Set(ctx, redisKey(owner, resultKey(lang, date)), fmt.Sprintf("%t", won), 0).Err(); err != nil {
		return true, err
	}
	if won && delta != 0 {
		if err := s.client.IncrBy(ctx, redisKey(owner, scoreKey(lang)), int64(delta)).Err(); err != nil {
			return true, err
		}
	}
	return true, nil
}

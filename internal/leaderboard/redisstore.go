package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each difficulty's list as a JSON array under
// leaderboard:<difficulty>. A single SET replaces it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(difficulty string) string {
	return "leaderboard:" + difficulty
}

func (s *RedisStore) Load(ctx context.Context, difficulty string) ([]Record, error) {
	b, err := s.client.Get(ctx, redisKey(difficulty)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := []Record{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *RedisStore) Persist(ctx context.Context, difficulty string, records []Record) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.client.Set(ctx, redisKey(difficulty), b, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

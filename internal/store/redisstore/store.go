package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/mindguide/internal/stats"
)

type Store struct {
	client   *redis.Client
	statsTTL time.Duration
}

func New(addr, password string, db int, statsTTL time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if statsTTL <= 0 {
		statsTTL = time.Minute
	}
	return &Store{client: client, statsTTL: statsTTL}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func statsKey(userID uint64) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

func (s *Store) GetStats(ctx context.Context, userID uint64) (*stats.Stats, error) {
	raw, err := s.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeStats(raw)
}

func (s *Store) SetStats(ctx context.Context, userID uint64, st stats.Stats) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsKey(userID), b, s.statsTTL).Err()
}

func (s *Store) DeleteStats(ctx context.Context, userID uint64) error {
	return s.client.Del(ctx, statsKey(userID)).Err()
}

func decodeStats(raw []byte) (*stats.Stats, error) {
	var st stats.Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &st, nil
}

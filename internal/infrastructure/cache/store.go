package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store exposes the key-value and leaderboard operations backed by redis.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// IncrScore bumps member's score on the named leaderboard and returns the
// new score.
func (s *Store) IncrScore(ctx context.Context, board, member string, by float64) (float64, error) {
	return s.client.ZIncrBy(ctx, board, by, member).Result()
}

// Top returns the n highest-scored members, best first.
func (s *Store) Top(ctx context.Context, board string, n int64) ([]redis.Z, error) {
	return s.client.ZRevRangeWithScores(ctx, board, 0, n-1).Result()
}

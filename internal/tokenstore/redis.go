package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "refresh_token:"

// RedisStore implements Store over Redis.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log := logger.With().Str("component", "tokenstore").Logger()
	log.Info().Str("addr", cfg.Addr).Msg("connected to redis")

	return &RedisStore{client: client, logger: log}, nil
}

var _ Store = (*RedisStore)(nil)

// Save records a refresh token for a user with a TTL.
func (s *RedisStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// Lookup resolves the owning user id, or ErrTokenNotFound.
func (s *RedisStore) Lookup(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotFound
		}
		return 0, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token record: %w", err)
	}
	return userID, nil
}

// Revoke removes a refresh token.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces favorites documents in a shared Redis.
const DefaultKeyPrefix = "worlder:favorites:"

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisDocumentStore keeps favorites documents as JSON strings under prefix+userID.
type RedisDocumentStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisDocumentStore wraps rdb. An empty prefix uses [DefaultKeyPrefix].
func NewRedisDocumentStore(rdb *redis.Client, prefix string) *RedisDocumentStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisDocumentStore{rdb: rdb, prefix: prefix}
}

func (s *RedisDocumentStore) key(userID string) string {
	return s.prefix + userID
}

// Ping checks connectivity.
func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}

// Get returns the user's document and whether it exists.
func (s *RedisDocumentStore) Get(ctx context.Context, userID string) (*models.FavoritesDocument, bool, error) {
	var doc models.FavoritesDocument
	found, err := redisGetJSON(ctx, s.rdb, s.key(userID), &doc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read favorites document: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &doc, true, nil
}

// Set replaces the user's document, creating it when absent. Documents never expire.
func (s *RedisDocumentStore) Set(ctx context.Context, userID string, doc *models.FavoritesDocument) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrInvalidArgument)
	}
	if err := redisSetJSON(ctx, s.rdb, s.key(userID), documentOrEmpty(doc), 0); err != nil {
		return fmt.Errorf("failed to write favorites document: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisDocumentStore) Close() error {
	return s.rdb.Close()
}

func redisSetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

func redisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

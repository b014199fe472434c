package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/botirk38/langsim/types"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "langsim:pair:"

// RedisBackend implements CacheBackend on plain Redis string keys. Values are
// stored as JSON so that several processes can share one memo table.
type RedisBackend[K comparable, V any] struct {
	client *redis.Client
	prefix string
	config types.BackendConfig
}

// parseRedisURL parses a Redis URL and returns redis.Options
func parseRedisURL(connectionString string) (*redis.Options, error) {
	// Handle redis:// or rediss:// URLs
	if strings.HasPrefix(connectionString, "redis://") || strings.HasPrefix(connectionString, "rediss://") {
		parsedURL, err := url.Parse(connectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}

		opts := &redis.Options{
			Addr: parsedURL.Host,
		}

		if parsedURL.Scheme == "rediss" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		if parsedURL.User != nil {
			opts.Username = parsedURL.User.Username()
			if password, ok := parsedURL.User.Password(); ok {
				opts.Password = password
			}
		}

		// Database number from path
		if parsedURL.Path != "" && parsedURL.Path != "/" {
			dbStr := strings.TrimPrefix(parsedURL.Path, "/")
			if db, err := strconv.Atoi(dbStr); err == nil {
				opts.DB = db
			}
		}

		return opts, nil
	}

	// Simple address format (host:port)
	return &redis.Options{
		Addr: connectionString,
	}, nil
}

// NewRedisBackend creates a new Redis backend and checks the connection.
func NewRedisBackend[K comparable, V any](config types.BackendConfig) (*RedisBackend[K, V], error) {
	if config.ConnectionString == "" {
		return nil, errors.New("redis connection string is required")
	}
	opts, err := parseRedisURL(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	// Explicit config values override the URL
	if config.Username != "" {
		opts.Username = config.Username
	}
	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.Database != 0 {
		opts.DB = config.Database
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RedisBackend[K, V]{
		client: client,
		prefix: prefix,
		config: config,
	}, nil
}

// keyString converts a key to a Redis key string
func (b *RedisBackend[K, V]) keyString(key K) string {
	return fmt.Sprintf("%s%v", b.prefix, key)
}

// Set stores a value with the configured TTL (zero means no expiry)
func (b *RedisBackend[K, V]) Set(ctx context.Context, key K, value V) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := b.client.Set(ctx, b.keyString(key), payload, b.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set entry in Redis: %w", err)
	}
	return nil
}

// Get retrieves a value from Redis
func (b *RedisBackend[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var value V

	raw, err := b.client.Get(ctx, b.keyString(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("failed to get entry from Redis: %w", err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return value, true, nil
}

// Delete removes an entry from Redis
func (b *RedisBackend[K, V]) Delete(ctx context.Context, key K) error {
	if err := b.client.Del(ctx, b.keyString(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete entry from Redis: %w", err)
	}
	return nil
}

// Contains checks if a key exists in Redis
func (b *RedisBackend[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	exists, err := b.client.Exists(ctx, b.keyString(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence in Redis: %w", err)
	}
	return exists > 0, nil
}

// scanKeys walks every key under the prefix with SCAN
func (b *RedisBackend[K, V]) scanKeys(ctx context.Context) ([]string, error) {
	pattern := b.prefix + "*"
	var keys []string
	var cursor uint64

	for {
		result, nextCursor, err := b.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys from Redis: %w", err)
		}

		keys = append(keys, result...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Flush clears all entries with the configured prefix from Redis
func (b *RedisBackend[K, V]) Flush(ctx context.Context) error {
	keys, err := b.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := b.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to flush Redis: %w", err)
		}
	}
	return nil
}

// Len returns the number of entries in Redis with our prefix
func (b *RedisBackend[K, V]) Len(ctx context.Context) (int, error) {
	keys, err := b.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close closes the Redis connection
func (b *RedisBackend[K, V]) Close() error {
	return b.client.Close()
}

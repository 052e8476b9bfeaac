package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ideaforge:knowledge:"

// RedisStore keeps the record index in Redis so that multiple runs and the
// periodic refresher share one corpus. Records are stored as JSON in a hash
// under a single prefix; scoring happens client-side, which is fine for the
// corpus sizes this index is meant for.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is the Redis password (optional).
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix is the key prefix (default "ideaforge:knowledge:").
	Prefix string
	// TTL is the index expiry; 0 keeps records until the next refresh.
	TTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreFromClient creates a store from an existing client. Useful
// for testing with miniredis.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) recordsKey() string { return s.prefix + "records" }

// Upsert inserts or replaces records by ID.
func (s *RedisStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return errors.New("record ID is required")
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}
		fields[rec.ID] = data
	}

	if err := s.client.HSet(ctx, s.recordsKey(), fields).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.recordsKey(), s.ttl).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	return nil
}

// SearchSimilar loads the index and ranks it client-side.
func (s *RedisStore) SearchSimilar(ctx context.Context, query string, limit int) ([]Record, error) {
	raw, err := s.client.HGetAll(ctx, s.recordsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	all := make([]Record, 0, len(raw))
	for id, data := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
		}
		all = append(all, rec)
	}

	return rankRecords(query, all, limit), nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

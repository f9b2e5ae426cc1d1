package entrystore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xy2yp/Artify/pkg/metrics"
)

const keyPrefix = "artify:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// redisEntry is the stored envelope. Redis expiry is a garbage collection
// bound only; freshness is judged by the caller against StoredAt.
type redisEntry struct {
	Payload  []byte `json:"payload"`
	StoredAt int64  `json:"stored_at"`
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour // default TTL
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) keyFor(key string) string {
	return keyPrefix + key
}

func (s *RedisStore) Get(key string) (Entry, bool, error) {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	data, err := s.client.Get(ctx, s.keyFor(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Entry{}, false, nil
		}
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return Entry{}, false, fmt.Errorf("redis get error: %w", err)
	}

	var re redisEntry
	if err := json.Unmarshal(data, &re); err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return Entry{}, false, fmt.Errorf("redis entry decode error: %w", err)
	}

	e := Entry{
		Key:      key,
		Payload:  re.Payload,
		StoredAt: time.UnixMilli(re.StoredAt),
	}

	return e, true, nil
}

func (s *RedisStore) Put(e Entry) error {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("put").Observe(time.Since(start).Seconds())
	}()

	data, err := json.Marshal(redisEntry{
		Payload:  e.Payload,
		StoredAt: e.StoredAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("redis entry encode error: %w", err)
	}

	if err := s.client.Set(ctx, s.keyFor(e.Key), data, s.ttl).Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(key string) error {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	if err := s.client.Del(ctx, s.keyFor(key)).Err(); err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del error: %w", err)
	}

	return nil
}

func (s *RedisStore) Clear() error {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("clear").Observe(time.Since(start).Seconds())
	}()

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			metrics.StoreErrors.WithLabelValues("clear").Inc()
			return fmt.Errorf("redis scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				metrics.StoreErrors.WithLabelValues("clear").Inc()
				return fmt.Errorf("redis del error: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

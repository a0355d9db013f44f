package accounts

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
	"github.com/akashsuryawanshi04/invest-simulator/pkg/retrier"
)

const redisKeyPrefix = "investsim:account:"

// RedisConfig configures the Redis-backed repository.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Repository on Redis, one JSON blob per account.
// Writes and deletes retry briefly before surfacing a persistence failure,
// since blips on a snapshot write would otherwise reach the session log.
type RedisStore struct {
	client *goredis.Client
	retry  *retrier.Retrier
}

// NewRedisStore connects and pings the server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}

	return &RedisStore{
		client: client,
		retry:  retrier.New(retrier.WithInitialInterval(50*time.Millisecond), retrier.WithMaxRetries(2)),
	}, nil
}

// Load reads the persisted state for the key, (nil, nil) when absent.
func (s *RedisStore) Load(ctx context.Context, key Key) (*domain.AccountState, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+key.storageName()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrPersistenceUnavailable, "read account state: %v", err)
	}

	var state domain.AccountState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrapf(ErrPersistenceUnavailable, "decode account state: %v", err)
	}

	return &state, nil
}

// Save writes a full snapshot. No TTL: accounts live until reset.
func (s *RedisStore) Save(ctx context.Context, key Key, state domain.AccountState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "encode account state: %v", err)
	}

	err = s.retry.Do(ctx, func(ctx context.Context) error {
		return s.client.Set(ctx, redisKeyPrefix+key.storageName(), payload, 0).Err()
	})
	if err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "persist account state: %v", err)
	}
	return nil
}

// Delete removes the persisted snapshot.
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.client.Del(ctx, redisKeyPrefix+key.storageName()).Err()
	})
	if err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "delete account state: %v", err)
	}
	return nil
}

// Close releases the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

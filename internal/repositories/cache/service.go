package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"refnet/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService stores JSON values in Redis. A miss is reported as found == false, never as
// an error.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Balance caching
func (s *CacheService) GetBalance(ctx context.Context, userID uint) (*models.Balance, bool, error) {
	var balance models.Balance
	found, err := s.Get(ctx, s.balanceKey(userID), &balance)
	if err != nil || !found {
		return nil, false, err
	}
	return &balance, true, nil
}

// BalanceVersion returns the invalidation generation of a user's balance. Read it before
// loading the balance from the database and hand it back to SetBalance.
func (s *CacheService) BalanceVersion(ctx context.Context, userID uint) (int64, error) {
	version, err := s.client.Get(ctx, s.balanceVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance version: %w", err)
	}
	return version, nil
}

// SetBalance stores balance only while the generation still equals version. A balance read
// before an invalidation is dropped instead of overwriting the fresher state.
func (s *CacheService) SetBalance(ctx context.Context, balance models.Balance, version int64) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	versionKey := s.balanceVersionKey(balance.UserID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.balanceKey(balance.UserID), data, s.ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateBalance drops the cached balances and bumps their generations.
func (s *CacheService) InvalidateBalance(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, s.balanceVersionKey(id))
			pipe.Del(ctx, s.balanceKey(id))
		}
		return nil
	})
	return err
}

func (s *CacheService) balanceKey(userID uint) string {
	return s.GenerateKey("balance", "user", userID)
}

func (s *CacheService) balanceVersionKey(userID uint) string {
	return s.GenerateKey("balance", "version", userID)
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	return Ping(ctx, s.client)
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

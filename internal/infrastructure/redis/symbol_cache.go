package redis

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisSymbolCache shares resolved token symbols between instances.
type RedisSymbolCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSymbolCache(client *redis.Client, ttl time.Duration) *RedisSymbolCache {
	return &RedisSymbolCache{client: client, ttl: ttl}
}

func (r *RedisSymbolCache) GetSymbol(ctx context.Context, token common.Address) (string, bool, error) {
	symbol, err := r.client.Get(ctx, tokenSymbolKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "get symbol %s", token.Hex())
	}
	return symbol, true, nil
}

func (r *RedisSymbolCache) SetSymbol(ctx context.Context, token common.Address, symbol string) error {
	err := r.client.Set(ctx, tokenSymbolKey(token), symbol, r.ttl).Err()
	return errors.Wrapf(err, "set symbol %s", token.Hex())
}

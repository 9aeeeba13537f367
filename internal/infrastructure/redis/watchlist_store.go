package redis

import (
	"context"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisWatchlistStore keeps one set per user; members are encoded auction ids.
type RedisWatchlistStore struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisWatchlistStore(client *redis.Client, log logger.Logger) *RedisWatchlistStore {
	return &RedisWatchlistStore{client: client, log: log}
}

func (r *RedisWatchlistStore) Add(ctx context.Context, userID string, auctionID domain.AuctionID) error {
	err := r.client.SAdd(ctx, watchlistKey(userID), auctionID.Encode()).Err()
	return errors.Wrapf(err, "watchlist add %s", userID)
}

func (r *RedisWatchlistStore) Remove(ctx context.Context, userID string, auctionID domain.AuctionID) error {
	err := r.client.SRem(ctx, watchlistKey(userID), auctionID.Encode()).Err()
	return errors.Wrapf(err, "watchlist remove %s", userID)
}

func (r *RedisWatchlistStore) Contains(ctx context.Context, userID string, auctionID domain.AuctionID) (bool, error) {
	ok, err := r.client.SIsMember(ctx, watchlistKey(userID), auctionID.Encode()).Result()
	if err != nil {
		return false, errors.Wrapf(err, "watchlist lookup %s", userID)
	}
	return ok, nil
}

// List skips members that no longer decode rather than failing the read.
func (r *RedisWatchlistStore) List(ctx context.Context, userID string) ([]domain.AuctionID, error) {
	members, err := r.client.SMembers(ctx, watchlistKey(userID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "watchlist list %s", userID)
	}

	ids := make([]domain.AuctionID, 0, len(members))
	for _, m := range members {
		id, err := domain.DecodeAuctionID(m)
		if err != nil {
			r.log.Warn("Dropping undecodable watchlist member", "user_id", userID, "member", m, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package leader

import (
	"context"
	"time"

	"auction-marketplace/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const leaderKey = "price_feed_leader"

var (
	releaseScript = redis.NewScript(`
        if redis.call("GET", KEYS[1]) == ARGV[1] then
            return redis.call("DEL", KEYS[1])
        else
            return 0
        end
    `)
	renewScript = redis.NewScript(`
        if redis.call("GET", KEYS[1]) == ARGV[1] then
            return redis.call("EXPIRE", KEYS[1], ARGV[2])
        else
            return 0
        end
    `)
)

// RedisLeaderElection elects the feed instance that publishes price ticks.
type RedisLeaderElection struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewRedisLeaderElection(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisLeaderElection {
	return &RedisLeaderElection{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (r *RedisLeaderElection) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	result, err := r.client.SetNX(ctx, leaderKey, instanceID, r.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "acquire leadership")
	}

	if result {
		r.log.Info("Acquired price feed leadership", "instance_id", instanceID)
		go r.maintainLeadership(instanceID)
	}

	return result, nil
}

func (r *RedisLeaderElection) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	currentLeader, err := r.client.Get(ctx, leaderKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.Wrap(err, "read leader")
	}

	return currentLeader == instanceID, nil
}

func (r *RedisLeaderElection) ReleaseLeadership(ctx context.Context, instanceID string) error {
	return errors.Wrap(releaseScript.Run(ctx, r.client, []string{leaderKey}, instanceID).Err(), "release leadership")
}

// maintainLeadership refreshes the lock at a third of its TTL until it is lost.
func (r *RedisLeaderElection) maintainLeadership(instanceID string) {
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		renewed, err := renewScript.Run(ctx, r.client, []string{leaderKey}, instanceID, int(r.ttl.Seconds())).Int64()
		cancel()

		if err != nil || renewed == 0 {
			r.log.Warn("Lost price feed leadership", "instance_id", instanceID, "error", err)
			return
		}
	}
}

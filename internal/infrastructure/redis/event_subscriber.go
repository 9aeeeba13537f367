package redis

import (
	"context"
	"encoding/json"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

func (r *RedisEventSubscriber) SubscribeToAuctionEvents(ctx context.Context, handler domain.EventHandler) error {
	return r.subscribe(ctx, auctionEventsChannel, func(payload string) error {
		var event domain.AuctionEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			r.log.Error("Failed to parse event", "payload", payload, "error", err)
			return nil
		}
		if err := handler(&event); err != nil {
			r.log.Error("Failed to handle event", "type", event.Type, "auction_id", event.AuctionID, "error", err)
		}
		return nil
	})
}

func (r *RedisEventSubscriber) SubscribeToSnapshots(ctx context.Context, handler domain.SnapshotHandler) error {
	return r.subscribe(ctx, snapshotsChannel, func(payload string) error {
		snapshot, err := decodeSnapshot([]byte(payload))
		if err != nil {
			r.log.Error("Failed to parse snapshot", "error", err)
			return nil
		}
		if err := handler(snapshot); err != nil {
			r.log.Error("Failed to handle snapshot", "auction_id", snapshot.ID.Encode(), "error", err)
		}
		return nil
	})
}

// subscribe blocks until ctx is done. Handler errors are logged by the
// callers and never end the subscription.
func (r *RedisEventSubscriber) subscribe(ctx context.Context, channel string, handle func(payload string) error) error {
	pubsub := r.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to channel", "channel", channel)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := handle(msg.Payload); err != nil {
				return err
			}

		case <-ctx.Done():
			r.log.Info("Subscriber stopped", "channel", channel)
			return ctx.Err()
		}
	}
}

package redis

import (
	"context"
	"encoding/json"

	"auction-marketplace/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishAuctionEvent(ctx context.Context, event *domain.AuctionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode auction event")
	}
	return errors.Wrapf(r.client.Publish(ctx, auctionEventsChannel, payload).Err(),
		"publish %s for %s", event.Type, event.AuctionID)
}

func (r *EventPublisherImpl) PublishSnapshot(ctx context.Context, snapshot *domain.AuctionSnapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return errors.Wrapf(r.client.Publish(ctx, snapshotsChannel, payload).Err(),
		"publish snapshot %s", snapshot.ID)
}

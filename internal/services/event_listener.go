package services

import (
	"context"
	"fmt"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// EventListener pushes auction events to the feed's websocket subscribers.
type EventListener struct {
	broadcaster       domain.AuctionBroadcaster
	connectionManager domain.ConnectionManager
	log               logger.Logger
}

func NewEventListener(connectionManager domain.ConnectionManager,
	broadcaster domain.AuctionBroadcaster, log logger.Logger) *EventListener {
	return &EventListener{
		broadcaster:       broadcaster,
		connectionManager: connectionManager,
		log:               log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting event listener")
	return subscriber.SubscribeToAuctionEvents(ctx, el.handleAuctionEvent)
}

func (el *EventListener) handleAuctionEvent(event *domain.AuctionEvent) error {
	el.log.Debug("Handling auction event", "type", event.Type, "auction_id", event.AuctionID)

	switch event.Type {
	case domain.EventPriceTick, domain.EventPhaseChange, domain.EventBidAccepted, domain.EventSnapshotUpdated:
		return el.broadcaster.BroadcastToAuction(context.Background(), event.AuctionID, event)
	case domain.EventAuctionClaimed:
		return el.handleAuctionClaimed(event)
	}

	return fmt.Errorf("unknown event type %q for auction %s", event.Type, event.AuctionID)
}

// handleAuctionClaimed sends the final message, then drops the auction's
// subscribers: a claimed auction never changes again.
func (el *EventListener) handleAuctionClaimed(event *domain.AuctionEvent) error {
	if err := el.broadcaster.BroadcastToAuction(context.Background(), event.AuctionID, event); err != nil {
		el.log.Error("Failed to broadcast auction claimed event", "error", err)
		return err
	}

	if err := el.connectionManager.CloseAndUnregisterConnections(event.AuctionID); err != nil {
		el.log.Error("Failed to finalize connections for auction", "auction_id",
			event.AuctionID, "error", err)
		return err
	}
	return nil
}

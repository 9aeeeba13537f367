package websocket

import (
	"context"

	"auction-marketplace/internal/domain"
)

// Notifier adapts a ConnectionManager to domain.AuctionBroadcaster.
type Notifier struct {
	connManager domain.ConnectionManager
}

func NewNotifier(connManager domain.ConnectionManager) *Notifier {
	return &Notifier{connManager: connManager}
}

func (n *Notifier) BroadcastToAuction(ctx context.Context, auctionID string, message interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.connManager.BroadcastToAuction(auctionID, message)
}

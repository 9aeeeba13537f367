package domain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Clock is the wall-clock source. Callers convert to unix seconds once.
type Clock func() time.Time

// TokenNameResolver resolves a token contract to its display symbol.
type TokenNameResolver interface {
	TokenSymbol(ctx context.Context, token common.Address) (string, error)
}

// Repository interfaces
type BidRepository interface {
	SaveBid(ctx context.Context, bid *Bid) error
	// GetBidHistory returns bids newest first.
	GetBidHistory(ctx context.Context, auctionID string) ([]*Bid, error)
}

type WatchlistStore interface {
	Add(ctx context.Context, userID string, auctionID AuctionID) error
	Remove(ctx context.Context, userID string, auctionID AuctionID) error
	Contains(ctx context.Context, userID string, auctionID AuctionID) (bool, error)
	List(ctx context.Context, userID string) ([]AuctionID, error)
}

// Cache interfaces
type TokenSymbolCache interface {
	GetSymbol(ctx context.Context, token common.Address) (string, bool, error)
	SetSymbol(ctx context.Context, token common.Address, symbol string) error
}

// Event interfaces
type EventPublisher interface {
	PublishAuctionEvent(ctx context.Context, event *AuctionEvent) error
}

type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot *AuctionSnapshot) error
}

type EventSubscriber interface {
	SubscribeToAuctionEvents(ctx context.Context, handler EventHandler) error
}

type SnapshotSubscriber interface {
	SubscribeToSnapshots(ctx context.Context, handler SnapshotHandler) error
}

type EventHandler func(event *AuctionEvent) error

type SnapshotHandler func(snapshot *AuctionSnapshot) error

// Notification interfaces
type AuctionBroadcaster interface {
	BroadcastToAuction(ctx context.Context, auctionID string, message interface{}) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	AuctionID() string
}

type ConnectionManager interface {
	RegisterConnection(userID, auctionID string, conn WebSocketConnection) error
	UnregisterConnection(userID, auctionID string, conn WebSocketConnection) error
	GetConnectionsForAuction(auctionID string) []WebSocketConnection
	BroadcastToAuction(auctionID string, message interface{}) error
	CloseAndUnregisterConnections(auctionID string) error
}

package services

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

// BidRecorder turns bid_accepted events into immutable bid history rows.
type BidRecorder struct {
	repo domain.BidRepository
	log  logger.Logger
}

func NewBidRecorder(repo domain.BidRepository, log logger.Logger) *BidRecorder {
	return &BidRecorder{repo: repo, log: log}
}

func (r *BidRecorder) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	r.log.Info("Starting bid recorder")
	return subscriber.SubscribeToAuctionEvents(ctx, func(event *domain.AuctionEvent) error {
		return r.Record(ctx, event)
	})
}

// Record ignores every event type but bid_accepted.
func (r *BidRecorder) Record(ctx context.Context, event *domain.AuctionEvent) error {
	if event.Type != domain.EventBidAccepted {
		return nil
	}

	bid, err := bidFromEvent(event)
	if err != nil {
		r.log.Warn("Dropping malformed bid event", "auction_id", event.AuctionID, "error", err)
		return err
	}
	if err := r.repo.SaveBid(ctx, bid); err != nil {
		r.log.Error("Failed to record bid", "auction_id", bid.AuctionID, "bidder", bid.Bidder.Hex(), "error", err)
		return err
	}

	metrics.BidsRecorded.Inc()
	r.log.Info("Recorded bid", "auction_id", bid.AuctionID, "bidder", bid.Bidder.Hex(), "amount", event.Amount)
	return nil
}

func (r *BidRecorder) History(ctx context.Context, encodedID string) ([]*domain.Bid, error) {
	if _, err := domain.DecodeAuctionID(encodedID); err != nil {
		return nil, err
	}
	return r.repo.GetBidHistory(ctx, encodedID)
}

func bidFromEvent(event *domain.AuctionEvent) (*domain.Bid, error) {
	id, err := domain.DecodeAuctionID(event.AuctionID)
	if err != nil {
		return nil, err
	}
	if id.Protocol != domain.ProtocolAscending {
		return nil, fmt.Errorf("%w: bid history for %s auction", domain.ErrUnsupportedOperation, id.Protocol)
	}
	if !common.IsHexAddress(event.Bidder) {
		return nil, fmt.Errorf("%w: bidder %q", domain.ErrInvalidRequest, event.Bidder)
	}
	amount, ok := new(big.Int).SetString(event.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount %q", domain.ErrInvalidRequest, event.Amount)
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &domain.Bid{
		AuctionID:   event.AuctionID,
		Bidder:      common.HexToAddress(event.Bidder),
		Amount:      amount,
		Timestamp:   ts.Unix(),
		BlockNumber: event.Block,
	}, nil
}

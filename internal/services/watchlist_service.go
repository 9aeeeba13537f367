package services

import (
	"context"
	"fmt"
	"strings"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// WatchlistService keeps the per-user set of tracked auctions. Ids come in
// encoded and are decoded before they reach the store.
type WatchlistService struct {
	store domain.WatchlistStore
	log   logger.Logger
}

func NewWatchlistService(store domain.WatchlistStore, log logger.Logger) *WatchlistService {
	return &WatchlistService{store: store, log: log}
}

func (w *WatchlistService) Add(ctx context.Context, userID, encodedID string) (domain.AuctionID, error) {
	id, err := w.parse(userID, encodedID)
	if err != nil {
		return domain.AuctionID{}, err
	}
	return id, w.store.Add(ctx, userID, id)
}

func (w *WatchlistService) Remove(ctx context.Context, userID, encodedID string) (domain.AuctionID, error) {
	id, err := w.parse(userID, encodedID)
	if err != nil {
		return domain.AuctionID{}, err
	}
	return id, w.store.Remove(ctx, userID, id)
}

// Toggle flips membership and reports whether the auction is now watched.
func (w *WatchlistService) Toggle(ctx context.Context, userID, encodedID string) (bool, error) {
	id, err := w.parse(userID, encodedID)
	if err != nil {
		return false, err
	}

	watching, err := w.store.Contains(ctx, userID, id)
	if err != nil {
		return false, err
	}
	if watching {
		err = w.store.Remove(ctx, userID, id)
	} else {
		err = w.store.Add(ctx, userID, id)
	}
	if err != nil {
		return watching, err
	}

	w.log.Debug("Watchlist toggled", "user_id", userID, "auction_id", encodedID, "watching", !watching)
	return !watching, nil
}

func (w *WatchlistService) Contains(ctx context.Context, userID, encodedID string) (bool, error) {
	id, err := w.parse(userID, encodedID)
	if err != nil {
		return false, err
	}
	return w.store.Contains(ctx, userID, id)
}

func (w *WatchlistService) List(ctx context.Context, userID string) ([]domain.WatchlistEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	ids, err := w.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.WatchlistEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.WatchlistEntry{UserID: userID, AuctionID: id})
	}
	return entries, nil
}

func (w *WatchlistService) parse(userID, encodedID string) (domain.AuctionID, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.AuctionID{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	return domain.DecodeAuctionID(encodedID)
}

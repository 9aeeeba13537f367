package pricing

import (
	"math/big"

	"auction-marketplace/internal/domain"
)

// MinimumNextBid returns currentHighestBid + minBidDelta once a bid exists,
// otherwise the starting bid. Zero means no floor is configured; callers must
// not present it as a valid floor.
func MinimumNextBid(s *domain.AuctionSnapshot) *big.Int {
	if s.HasHighestBid() {
		return new(big.Int).Add(s.CurrentHighestBid, orZero(s.MinBidDelta))
	}
	return new(big.Int).Set(orZero(s.StartingPrice))
}

// ValidateBid checks a candidate ascending bid at unix time now. Failures are
// typed: *domain.BelowMinimumBidError, *domain.AuctionEndedError or
// domain.ErrAuctionAlreadyClaimed.
func ValidateBid(s *domain.AuctionSnapshot, amount *big.Int, now int64) error {
	if s.ID.Protocol != domain.ProtocolAscending {
		return &domain.UnsupportedOperationError{Protocol: s.ID.Protocol, Operation: "place bid"}
	}
	if s.IsClaimed {
		return domain.ErrAuctionAlreadyClaimed
	}
	if now >= s.Deadline {
		return &domain.AuctionEndedError{Deadline: s.Deadline}
	}

	minimum := MinimumNextBid(s)
	if amount == nil || amount.Cmp(minimum) < 0 {
		return &domain.BelowMinimumBidError{Minimum: minimum, Candidate: orZero(amount)}
	}
	return nil
}

func IsBidValid(s *domain.AuctionSnapshot, amount *big.Int, now int64) bool {
	return ValidateBid(s, amount, now) == nil
}

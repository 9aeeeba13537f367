package pricing

import (
	"math/big"

	"auction-marketplace/internal/domain"
)

func decaying(protocol domain.AuctionProtocol, start, reserved *big.Int, startTime, duration int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:            domain.MustAuctionID(protocol, 1),
		StartingPrice: start,
		ReservedPrice: reserved,
		Deadline:      startTime + duration,
		Duration:      duration,
	}
}

func ascending(startingBid, highest, delta int64, deadline int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:                domain.MustAuctionID(domain.ProtocolAscending, 3),
		StartingPrice:     big.NewInt(startingBid),
		CurrentHighestBid: big.NewInt(highest),
		MinBidDelta:       big.NewInt(delta),
		Deadline:          deadline,
		Duration:          deadline,
	}
}

func sealed(commitEnd, revealEnd int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:             domain.MustAuctionID(domain.ProtocolSealedBid, 9),
		StartingPrice:  big.NewInt(10),
		CommitPhaseEnd: commitEnd,
		RevealPhaseEnd: revealEnd,
		Deadline:       revealEnd,
		Duration:       revealEnd - commitEnd,
	}
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

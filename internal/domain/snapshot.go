package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind mirrors the contract's auctionType enum.
type AssetKind uint8

const (
	AssetNFT AssetKind = iota
	AssetERC20
)

type AuctionedAsset struct {
	Token         common.Address
	IDOrAmount    *big.Int
	IsNonFungible bool
	Symbol        string
}

type BiddingAsset struct {
	Token  common.Address
	Symbol string
}

// AuctionSnapshot is a normalized, point-in-time read of one auction's
// on-chain state. It is produced by the mapper and never mutated afterwards:
// a refresh builds a new value. Big integer fields are shared between copies
// and must be treated as read-only.
//
// CurrentHighestBid and MinBidDelta are set for ascending auctions only.
// WinningBid, CommitPhaseEnd and RevealPhaseEnd are set for sealed-bid
// auctions only. Times are unix seconds.
type AuctionSnapshot struct {
	ID          AuctionID
	Name        string
	Description string
	ImageURL    string

	Auctioneer common.Address
	Winner     common.Address

	AuctionedAsset AuctionedAsset
	BiddingAsset   BiddingAsset

	StartingPrice  *big.Int
	ReservedPrice  *big.Int
	AvailableFunds *big.Int

	CurrentHighestBid *big.Int
	MinBidDelta       *big.Int
	WinningBid        *big.Int

	Deadline  int64
	Duration  int64
	IsClaimed bool

	CommitPhaseEnd int64
	RevealPhaseEnd int64

	// BlockNumber is the chain height the raw record was read at.
	BlockNumber uint64
	// Revision is assigned by the snapshot store on each replacement.
	Revision uint64
}

// StartTime is deadline - duration.
func (s *AuctionSnapshot) StartTime() int64 {
	return s.Deadline - s.Duration
}

// HasHighestBid reports whether an ascending auction has received a bid.
func (s *AuctionSnapshot) HasHighestBid() bool {
	return s.CurrentHighestBid != nil && s.CurrentHighestBid.Sign() > 0
}

// WithRevision returns a copy carrying the given revision.
func (s *AuctionSnapshot) WithRevision(revision uint64) *AuctionSnapshot {
	cp := *s
	cp.Revision = revision
	return &cp
}

// Quote is the price a protocol reports at an instant. Hidden is set for
// sealed-bid auctions before the reveal phase completes; Price is nil then.
type Quote struct {
	Price  *big.Int
	Hidden bool
	AsOf   int64
}

// EnrichedSnapshot pairs a snapshot with values derived from it at AsOf.
// It is always built in one step, so a partially computed value is never
// observable.
type EnrichedSnapshot struct {
	Snapshot       *AuctionSnapshot
	AsOf           int64
	Status         AuctionStatus
	Phase          Phase
	Quote          Quote
	MinimumNextBid *big.Int
}

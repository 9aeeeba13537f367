package redis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/common"
)

// snapshotWire is the pub/sub form of an AuctionSnapshot. Integers travel
// as decimal strings so no JSON number ever carries a uint256.
type snapshotWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`

	Auctioneer common.Address `json:"auctioneer"`
	Winner     common.Address `json:"winner"`

	AuctionedToken  common.Address `json:"auctioned_token"`
	IDOrAmount      string         `json:"id_or_amount"`
	IsNonFungible   bool           `json:"is_non_fungible"`
	AuctionedSymbol string         `json:"auctioned_symbol"`
	BiddingToken    common.Address `json:"bidding_token"`
	BiddingSymbol   string         `json:"bidding_symbol"`

	StartingPrice     string `json:"starting_price"`
	ReservedPrice     string `json:"reserved_price,omitempty"`
	AvailableFunds    string `json:"available_funds"`
	CurrentHighestBid string `json:"current_highest_bid,omitempty"`
	MinBidDelta       string `json:"min_bid_delta,omitempty"`
	WinningBid        string `json:"winning_bid,omitempty"`

	Deadline       int64  `json:"deadline"`
	Duration       int64  `json:"duration"`
	IsClaimed      bool   `json:"is_claimed"`
	CommitPhaseEnd int64  `json:"commit_phase_end,omitempty"`
	RevealPhaseEnd int64  `json:"reveal_phase_end,omitempty"`
	BlockNumber    uint64 `json:"block_number"`
	Revision       uint64 `json:"revision"`
}

func encodeSnapshot(s *domain.AuctionSnapshot) ([]byte, error) {
	return json.Marshal(snapshotWire{
		ID:                s.ID.Encode(),
		Name:              s.Name,
		Description:       s.Description,
		ImageURL:          s.ImageURL,
		Auctioneer:        s.Auctioneer,
		Winner:            s.Winner,
		AuctionedToken:    s.AuctionedAsset.Token,
		IDOrAmount:        intString(s.AuctionedAsset.IDOrAmount),
		IsNonFungible:     s.AuctionedAsset.IsNonFungible,
		AuctionedSymbol:   s.AuctionedAsset.Symbol,
		BiddingToken:      s.BiddingAsset.Token,
		BiddingSymbol:     s.BiddingAsset.Symbol,
		StartingPrice:     intString(s.StartingPrice),
		ReservedPrice:     intString(s.ReservedPrice),
		AvailableFunds:    intString(s.AvailableFunds),
		CurrentHighestBid: intString(s.CurrentHighestBid),
		MinBidDelta:       intString(s.MinBidDelta),
		WinningBid:        intString(s.WinningBid),
		Deadline:          s.Deadline,
		Duration:          s.Duration,
		IsClaimed:         s.IsClaimed,
		CommitPhaseEnd:    s.CommitPhaseEnd,
		RevealPhaseEnd:    s.RevealPhaseEnd,
		BlockNumber:       s.BlockNumber,
		Revision:          s.Revision,
	})
}

func decodeSnapshot(payload []byte) (*domain.AuctionSnapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, err
	}
	id, err := domain.DecodeAuctionID(w.ID)
	if err != nil {
		return nil, err
	}

	var firstErr error
	parse := func(field, v string) *big.Int {
		if v == "" {
			return nil
		}
		n, ok := new(big.Int).SetString(v, 10)
		if !ok && firstErr == nil {
			firstErr = fmt.Errorf("snapshot %s: invalid %s %q", w.ID, field, v)
		}
		return n
	}

	s := &domain.AuctionSnapshot{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		ImageURL:    w.ImageURL,
		Auctioneer:  w.Auctioneer,
		Winner:      w.Winner,
		AuctionedAsset: domain.AuctionedAsset{
			Token:         w.AuctionedToken,
			IDOrAmount:    parse("id_or_amount", w.IDOrAmount),
			IsNonFungible: w.IsNonFungible,
			Symbol:        w.AuctionedSymbol,
		},
		BiddingAsset:      domain.BiddingAsset{Token: w.BiddingToken, Symbol: w.BiddingSymbol},
		StartingPrice:     parse("starting_price", w.StartingPrice),
		ReservedPrice:     parse("reserved_price", w.ReservedPrice),
		AvailableFunds:    parse("available_funds", w.AvailableFunds),
		CurrentHighestBid: parse("current_highest_bid", w.CurrentHighestBid),
		MinBidDelta:       parse("min_bid_delta", w.MinBidDelta),
		WinningBid:        parse("winning_bid", w.WinningBid),
		Deadline:          w.Deadline,
		Duration:          w.Duration,
		IsClaimed:         w.IsClaimed,
		CommitPhaseEnd:    w.CommitPhaseEnd,
		RevealPhaseEnd:    w.RevealPhaseEnd,
		BlockNumber:       w.BlockNumber,
		Revision:          w.Revision,
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return s, nil
}

func intString(x *big.Int) string {
	if x == nil {
		return ""
	}
	return x.String()
}

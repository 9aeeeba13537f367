package handlers

import (
	"fmt"
	"math/big"
	"strconv"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// Amounts travel as base-unit decimal strings; *_display fields carry the
// same value in whole tokens.

type IngestRequest struct {
	BlockNumber uint64  `json:"block_number"`
	Rows        [][]any `json:"rows" validate:"required,min=1"`
}

type ValidateBidRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type ValidateBidResponse struct {
	Valid bool `json:"valid"`
}

type OperationRequest struct {
	Caller   string `json:"caller" validate:"required,eth_addr"`
	Amount   string `json:"amount,omitempty"`
	Salt     string `json:"salt,omitempty"`
	Revision uint64 `json:"revision,omitempty"`
}

type WatchlistRequest struct {
	AuctionID string `json:"auction_id" validate:"required"`
}

type WatchlistResponse struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
	Watching  bool   `json:"watching"`
}

type TokenSymbolRequest struct {
	Symbol string `json:"symbol" validate:"required,max=32"`
}

type BidResponse struct {
	AuctionID     string `json:"auction_id"`
	Bidder        string `json:"bidder"`
	Amount        string `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Timestamp     int64  `json:"timestamp"`
	BlockNumber   uint64 `json:"block_number"`
}

type AuctionResponse struct {
	ID          string `json:"id"`
	Protocol    string `json:"protocol"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`

	Auctioneer string `json:"auctioneer"`
	Winner     string `json:"winner"`

	AuctionedToken       string `json:"auctioned_token"`
	AuctionedTokenSymbol string `json:"auctioned_token_symbol"`
	AuctionedIDOrAmount  string `json:"auctioned_id_or_amount"`
	IsNonFungible        bool   `json:"is_non_fungible"`
	BiddingToken         string `json:"bidding_token"`
	BiddingTokenSymbol   string `json:"bidding_token_symbol"`

	StartingPrice     string `json:"starting_price,omitempty"`
	ReservedPrice     string `json:"reserved_price,omitempty"`
	AvailableFunds    string `json:"available_funds"`
	CurrentHighestBid string `json:"current_highest_bid,omitempty"`
	MinBidDelta       string `json:"min_bid_delta,omitempty"`
	WinningBid        string `json:"winning_bid,omitempty"`

	StartTime      int64 `json:"start_time"`
	Deadline       int64 `json:"deadline"`
	Duration       int64 `json:"duration"`
	CommitPhaseEnd int64 `json:"commit_phase_end,omitempty"`
	RevealPhaseEnd int64 `json:"reveal_phase_end,omitempty"`
	IsClaimed      bool  `json:"is_claimed"`

	Status                string `json:"status"`
	Phase                 string `json:"phase,omitempty"`
	Price                 string `json:"price,omitempty"`
	PriceDisplay          string `json:"price_display,omitempty"`
	PriceHidden           bool   `json:"price_hidden,omitempty"`
	MinimumNextBid        string `json:"minimum_next_bid,omitempty"`
	MinimumNextBidDisplay string `json:"minimum_next_bid_display,omitempty"`

	AsOf        int64  `json:"as_of"`
	BlockNumber uint64 `json:"block_number"`
	Revision    uint64 `json:"revision"`
}

func newAuctionResponse(e *domain.EnrichedSnapshot) AuctionResponse {
	s := e.Snapshot
	resp := AuctionResponse{
		ID:          s.ID.Encode(),
		Protocol:    s.ID.Protocol.String(),
		Number:      s.ID.Number.String(),
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,

		Auctioneer: s.Auctioneer.Hex(),
		Winner:     s.Winner.Hex(),

		AuctionedToken:       s.AuctionedAsset.Token.Hex(),
		AuctionedTokenSymbol: s.AuctionedAsset.Symbol,
		AuctionedIDOrAmount:  amountString(s.AuctionedAsset.IDOrAmount),
		IsNonFungible:        s.AuctionedAsset.IsNonFungible,
		BiddingToken:         s.BiddingAsset.Token.Hex(),
		BiddingTokenSymbol:   s.BiddingAsset.Symbol,

		StartingPrice:     amountString(s.StartingPrice),
		ReservedPrice:     amountString(s.ReservedPrice),
		AvailableFunds:    amountString(s.AvailableFunds),
		CurrentHighestBid: amountString(s.CurrentHighestBid),
		MinBidDelta:       amountString(s.MinBidDelta),
		WinningBid:        amountString(s.WinningBid),

		StartTime:      s.StartTime(),
		Deadline:       s.Deadline,
		Duration:       s.Duration,
		CommitPhaseEnd: s.CommitPhaseEnd,
		RevealPhaseEnd: s.RevealPhaseEnd,
		IsClaimed:      s.IsClaimed,

		Status:      e.Status.String(),
		PriceHidden: e.Quote.Hidden,

		AsOf:        e.AsOf,
		BlockNumber: s.BlockNumber,
		Revision:    s.Revision,
	}
	if e.Phase != domain.PhaseNone {
		resp.Phase = e.Phase.String()
	}
	if !e.Quote.Hidden && e.Quote.Price != nil {
		resp.Price = e.Quote.Price.String()
		resp.PriceDisplay = formatAmount(e.Quote.Price)
	}
	if e.MinimumNextBid != nil {
		resp.MinimumNextBid = e.MinimumNextBid.String()
		resp.MinimumNextBidDisplay = formatAmount(e.MinimumNextBid)
	}
	return resp
}

func newBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		AuctionID:     b.AuctionID,
		Bidder:        b.Bidder.Hex(),
		Amount:        b.Amount.String(),
		AmountDisplay: formatAmount(b.Amount),
		Timestamp:     b.Timestamp,
		BlockNumber:   b.BlockNumber,
	}
}

// parseAmount accepts a base-unit decimal or 0x-hex uint256.
func parseAmount(value string) (*big.Int, error) {
	amount, ok := math.ParseBig256(value)
	if !ok || value == "" || amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount %q is not a uint256", domain.ErrInvalidRequest, value)
	}
	return amount, nil
}

func parseSalt(value string) (*common.Hash, error) {
	if value == "" {
		return nil, nil
	}
	raw, err := hexutil.Decode(value)
	if err != nil || len(raw) != common.HashLength {
		return nil, fmt.Errorf("%w: salt must be 32 hex-encoded bytes", domain.ErrInvalidRequest)
	}
	salt := common.BytesToHash(raw)
	return &salt, nil
}

func amountString(x *big.Int) string {
	if x == nil {
		return ""
	}
	return x.String()
}

func formatAmount(x *big.Int) string {
	if x == nil {
		return ""
	}
	return utils.FormatUnits(x, utils.TokenDecimals)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
func utoa(v uint64) string { return strconv.FormatUint(v, 10) }

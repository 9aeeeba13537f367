package services

import (
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/pricing"

	"github.com/ethereum/go-ethereum/common"
)

// DecayService serves the linear, exponential and logarithmic auctions.
// They settle by buying the item at the quoted price, never by bidding.
type DecayService struct {
	protocol domain.AuctionProtocol
	contract common.Address
}

func (d *DecayService) Protocol() domain.AuctionProtocol { return d.protocol }

func (d *DecayService) QuotePrice(s *domain.AuctionSnapshot, now int64) (domain.Quote, error) {
	return pricing.Quote(s, now)
}

func (d *DecayService) ValidateBid(s *domain.AuctionSnapshot, amount *big.Int, now int64) error {
	return &domain.UnsupportedOperationError{
		Protocol:  d.protocol,
		Operation: "place bid",
		Hint:      "purchase the item at the current price instead",
	}
}

// BuildPurchaseOrBidOperation buys the item at the current price. If the
// caller names an amount it is a ceiling: a price above it is refused.
// Purchases are refused from the deadline on.
func (d *DecayService) BuildPurchaseOrBidOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	if s.IsClaimed {
		return nil, domain.ErrAuctionAlreadyClaimed
	}
	if now >= s.Deadline {
		return nil, &domain.AuctionEndedError{Deadline: s.Deadline}
	}

	price, err := pricing.CurrentPrice(s, now)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil && req.Amount.Cmp(price) < 0 {
		return nil, &domain.BelowMinimumBidError{Minimum: price, Candidate: new(big.Int).Set(req.Amount)}
	}

	approval, err := approvalCall(s.BiddingAsset.Token, d.contract, price)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	call, err := contractCall(d.contract, decayingABI, "withdrawItem", s.ID.Number)
	if err != nil {
		return nil, fmt.Errorf("pack withdrawItem: %w", err)
	}
	if s.AuctionedAsset.IsNonFungible {
		call.Value = hexBig(price)
	}

	op := newOperation(s, domain.OperationPurchase, now)
	op.Approval = approval
	op.Call = call
	op.Amount = hexBig(price)
	return op, nil
}

func (d *DecayService) BuildFundsWithdrawalOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	return buildWithdrawFunds(s, d.contract, decayingABI, req, now)
}

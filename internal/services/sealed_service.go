package services

import (
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/pricing"

	"github.com/ethereum/go-ethereum/common"
)

// SealedBidService builds commit and reveal calls. Which one is built is
// decided by the phase at now.
type SealedBidService struct {
	contract common.Address
}

func (v *SealedBidService) Protocol() domain.AuctionProtocol { return domain.ProtocolSealedBid }

func (v *SealedBidService) QuotePrice(s *domain.AuctionSnapshot, now int64) (domain.Quote, error) {
	return pricing.Quote(s, now)
}

// ValidateBid accepts an amount at or above the minimum bid while the
// auction is still in its commit or reveal phase.
func (v *SealedBidService) ValidateBid(s *domain.AuctionSnapshot, amount *big.Int, now int64) error {
	if s.IsClaimed {
		return domain.ErrAuctionAlreadyClaimed
	}
	if pricing.SnapshotPhase(s, now) == domain.PhaseEnded {
		return &domain.AuctionEndedError{Deadline: s.RevealPhaseEnd}
	}
	minimum := pricing.MinimumNextBid(s)
	if amount == nil || amount.Cmp(minimum) < 0 {
		var candidate *big.Int
		if amount != nil {
			candidate = new(big.Int).Set(amount)
		} else {
			candidate = new(big.Int)
		}
		return &domain.BelowMinimumBidError{Minimum: minimum, Candidate: candidate}
	}
	return nil
}

func (v *SealedBidService) BuildPurchaseOrBidOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	if req.Amount == nil || req.Salt == nil {
		return nil, fmt.Errorf("%w: sealed bids need an amount and a salt", domain.ErrInvalidRequest)
	}
	if err := v.ValidateBid(s, req.Amount, now); err != nil {
		return nil, err
	}

	switch phase := pricing.SnapshotPhase(s, now); phase {
	case domain.PhaseCommit:
		commitment := BidCommitment(req.Amount, *req.Salt)
		call, err := contractCall(v.contract, sealedABI, "commitBid", s.ID.Number, [32]byte(commitment))
		if err != nil {
			return nil, fmt.Errorf("pack commitBid: %w", err)
		}
		op := newOperation(s, domain.OperationCommitBid, now)
		op.Call = call
		return op, nil

	case domain.PhaseReveal:
		approval, err := approvalCall(s.BiddingAsset.Token, v.contract, req.Amount)
		if err != nil {
			return nil, fmt.Errorf("pack approve: %w", err)
		}
		call, err := contractCall(v.contract, sealedABI, "revealBid", s.ID.Number, req.Amount, [32]byte(*req.Salt))
		if err != nil {
			return nil, fmt.Errorf("pack revealBid: %w", err)
		}
		op := newOperation(s, domain.OperationRevealBid, now)
		op.Approval = approval
		op.Call = call
		op.Amount = hexBig(req.Amount)
		return op, nil

	default:
		return nil, pricing.RequirePhase(s, domain.PhaseCommit, now)
	}
}

func (v *SealedBidService) BuildFundsWithdrawalOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	return buildWithdrawFunds(s, v.contract, sealedABI, req, now)
}

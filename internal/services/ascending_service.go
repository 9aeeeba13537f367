package services

import (
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/pricing"

	"github.com/ethereum/go-ethereum/common"
)

type AscendingService struct {
	contract common.Address
}

func (a *AscendingService) Protocol() domain.AuctionProtocol { return domain.ProtocolAscending }

func (a *AscendingService) QuotePrice(s *domain.AuctionSnapshot, now int64) (domain.Quote, error) {
	return pricing.Quote(s, now)
}

func (a *AscendingService) ValidateBid(s *domain.AuctionSnapshot, amount *big.Int, now int64) error {
	return pricing.ValidateBid(s, amount, now)
}

func (a *AscendingService) BuildPurchaseOrBidOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	if req.Amount == nil {
		return nil, fmt.Errorf("%w: bid amount is required", domain.ErrInvalidRequest)
	}
	if err := pricing.ValidateBid(s, req.Amount, now); err != nil {
		return nil, err
	}

	approval, err := approvalCall(s.BiddingAsset.Token, a.contract, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	call, err := contractCall(a.contract, ascendingABI, "placeBid", s.ID.Number, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("pack placeBid: %w", err)
	}

	op := newOperation(s, domain.OperationPlaceBid, now)
	op.Approval = approval
	op.Call = call
	op.Amount = hexBig(req.Amount)
	return op, nil
}

func (a *AscendingService) BuildFundsWithdrawalOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error) {
	return buildWithdrawFunds(s, a.contract, ascendingABI, req, now)
}

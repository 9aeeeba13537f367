package services

import (
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// OperationRequest is what a caller asks the builders for. Amount and Salt
// are required for bids and sealed-bid commits and reveals. Revision, when
// non-zero, is the snapshot revision the caller validated against.
type OperationRequest struct {
	Caller   common.Address
	Amount   *big.Int
	Salt     *common.Hash
	Revision uint64
}

// AuctionService is the capability set each protocol implements. All
// methods are pure with respect to the snapshot and never block.
type AuctionService interface {
	Protocol() domain.AuctionProtocol
	QuotePrice(s *domain.AuctionSnapshot, now int64) (domain.Quote, error)
	ValidateBid(s *domain.AuctionSnapshot, amount *big.Int, now int64) error
	BuildPurchaseOrBidOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error)
	BuildFundsWithdrawalOperation(s *domain.AuctionSnapshot, req OperationRequest, now int64) (*domain.TxOperation, error)
}

// Registry routes a protocol to its AuctionService.
type Registry struct {
	services map[domain.AuctionProtocol]AuctionService
	log      logger.Logger
}

// NewRegistry builds one service per protocol. Every protocol needs a
// contract address.
func NewRegistry(contracts map[domain.AuctionProtocol]common.Address, log logger.Logger) (*Registry, error) {
	r := &Registry{services: make(map[domain.AuctionProtocol]AuctionService), log: log}

	for _, protocol := range domain.AllProtocols() {
		contract, ok := contracts[protocol]
		if !ok {
			return nil, fmt.Errorf("no contract address configured for %s auctions", protocol)
		}
		svc, err := newAuctionService(protocol, contract)
		if err != nil {
			return nil, err
		}
		r.services[protocol] = svc
	}
	return r, nil
}

func newAuctionService(protocol domain.AuctionProtocol, contract common.Address) (AuctionService, error) {
	switch protocol {
	case domain.ProtocolAscending:
		return &AscendingService{contract: contract}, nil
	case domain.ProtocolLinearDecay, domain.ProtocolExponentialDecay, domain.ProtocolLogarithmicDecay:
		return &DecayService{protocol: protocol, contract: contract}, nil
	case domain.ProtocolSealedBid:
		return &SealedBidService{contract: contract}, nil
	}
	return nil, fmt.Errorf("%w: %d", domain.ErrUnknownProtocol, uint8(protocol))
}

// ServiceFor fails only for protocols outside the enumeration, which is a
// programming error: it is logged and counted.
func (r *Registry) ServiceFor(protocol domain.AuctionProtocol) (AuctionService, error) {
	svc, ok := r.services[protocol]
	if !ok {
		err := fmt.Errorf("%w: %d", domain.ErrUnknownProtocol, uint8(protocol))
		r.log.Error("No auction service for protocol", "protocol", uint8(protocol), "error", err)
		metrics.DispatchRefusals.WithLabelValues(protocol.String(), "unknown_protocol").Inc()
		return nil, err
	}
	return svc, nil
}

func newOperation(s *domain.AuctionSnapshot, kind domain.OperationKind, now int64) *domain.TxOperation {
	return &domain.TxOperation{
		ID:        utils.GenerateID("op"),
		AuctionID: s.ID.Encode(),
		Kind:      kind,
		Revision:  s.Revision,
		BuiltAt:   now,
	}
}

// buildWithdrawFunds is shared by every protocol: only the auctioneer may
// withdraw, and only when the contract holds proceeds.
func buildWithdrawFunds(s *domain.AuctionSnapshot, contract common.Address, a abi.ABI, req OperationRequest, now int64) (*domain.TxOperation, error) {
	if req.Caller != s.Auctioneer {
		return nil, domain.ErrNotAuctioneer
	}
	if s.AvailableFunds == nil || s.AvailableFunds.Sign() == 0 {
		return nil, domain.ErrNoFundsAvailable
	}

	call, err := contractCall(contract, a, "withdrawFunds", s.ID.Number)
	if err != nil {
		return nil, fmt.Errorf("pack withdrawFunds: %w", err)
	}
	op := newOperation(s, domain.OperationWithdrawFunds, now)
	op.Call = call
	op.Amount = hexBig(s.AvailableFunds)
	return op, nil
}

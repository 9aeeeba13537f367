package domain

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrMalformedIdentifier   = errors.New("malformed auction identifier")
	ErrUnknownProtocol       = errors.New("unknown auction protocol")
	ErrInvalidSnapshotArity  = errors.New("invalid snapshot arity")
	ErrUnsupportedOperation  = errors.New("unsupported operation")
	ErrStaleSnapshot         = errors.New("stale snapshot")
	ErrBelowMinimumBid       = errors.New("bid below minimum")
	ErrAuctionEnded          = errors.New("auction ended")
	ErrAuctionAlreadyClaimed = errors.New("auction already claimed")
	ErrWrongPhase            = errors.New("operation not allowed in current phase")
	ErrNoFundsAvailable      = errors.New("no funds available to withdraw")
	ErrNotAuctioneer         = errors.New("caller is not the auctioneer")
	ErrSnapshotNotFound      = errors.New("snapshot not found")
	ErrInvalidRequest        = errors.New("invalid operation request")
)

// BelowMinimumBidError carries the minimum the UI should show.
type BelowMinimumBidError struct {
	Minimum   *big.Int
	Candidate *big.Int
}

func (e *BelowMinimumBidError) Error() string {
	return fmt.Sprintf("bid %s is below the minimum next bid %s", e.Candidate, e.Minimum)
}

func (e *BelowMinimumBidError) Unwrap() error { return ErrBelowMinimumBid }

// AuctionEndedError carries the deadline (unix seconds) that has passed.
type AuctionEndedError struct {
	Deadline int64
}

func (e *AuctionEndedError) Error() string {
	return fmt.Sprintf("auction ended at %d", e.Deadline)
}

func (e *AuctionEndedError) Unwrap() error { return ErrAuctionEnded }

type StaleSnapshotError struct {
	AuctionID string
	Revision  uint64
	Latest    uint64
}

func (e *StaleSnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s revision %d is older than latest revision %d", e.AuctionID, e.Revision, e.Latest)
}

func (e *StaleSnapshotError) Unwrap() error { return ErrStaleSnapshot }

type WrongPhaseError struct {
	Want Phase
	Got  Phase
}

func (e *WrongPhaseError) Error() string {
	return fmt.Sprintf("operation requires %s phase, auction is in %s phase", e.Want, e.Got)
}

func (e *WrongPhaseError) Unwrap() error { return ErrWrongPhase }

// UnsupportedOperationError names the protocol and the refused operation.
type UnsupportedOperationError struct {
	Protocol  AuctionProtocol
	Operation string
	Hint      string
}

func (e *UnsupportedOperationError) Error() string {
	msg := fmt.Sprintf("%s auction does not support %s", e.Protocol, e.Operation)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// ArityError reports a raw record whose length does not match the protocol layout.
type ArityError struct {
	Protocol AuctionProtocol
	Want     int
	Got      int
	Field    string
}

func (e *ArityError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s record: field %s missing or invalid", e.Protocol, e.Field)
	}
	return fmt.Sprintf("%s record: expected %d fields, got %d", e.Protocol, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrInvalidSnapshotArity }

// IsUserFacing reports whether err is a pricing/validation failure the UI should explain.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrBelowMinimumBid) ||
		errors.Is(err, ErrAuctionEnded) ||
		errors.Is(err, ErrAuctionAlreadyClaimed) ||
		errors.Is(err, ErrWrongPhase) ||
		errors.Is(err, ErrNoFundsAvailable) ||
		errors.Is(err, ErrNotAuctioneer)
}

// IsProgrammerError reports a missing dispatch case.
func IsProgrammerError(err error) bool {
	return errors.Is(err, ErrUnknownProtocol) || errors.Is(err, ErrUnsupportedOperation)
}

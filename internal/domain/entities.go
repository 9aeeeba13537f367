package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Bid is an accepted ascending-auction bid. History entries are never mutated.
type Bid struct {
	AuctionID   string
	Bidder      common.Address
	Amount      *big.Int
	Timestamp   int64
	BlockNumber uint64
}

type WatchlistEntry struct {
	UserID    string
	AuctionID AuctionID
}

type OperationKind string

const (
	OperationPurchase      OperationKind = "purchase"
	OperationPlaceBid      OperationKind = "place_bid"
	OperationCommitBid     OperationKind = "commit_bid"
	OperationRevealBid     OperationKind = "reveal_bid"
	OperationWithdrawFunds OperationKind = "withdraw_funds"
)

// TxCall is one contract call ready for signing by the transaction layer.
type TxCall struct {
	To     common.Address `json:"to"`
	Method string         `json:"method"`
	Data   hexutil.Bytes  `json:"data"`
	Value  *hexutil.Big   `json:"value,omitempty"`
}

// TxOperation is a validated parameter bundle. Approval, when present, must be
// mined before Call.
type TxOperation struct {
	ID        string        `json:"id"`
	AuctionID string        `json:"auction_id"`
	Kind      OperationKind `json:"kind"`
	Approval  *TxCall       `json:"approval,omitempty"`
	Call      TxCall        `json:"call"`
	Amount    *hexutil.Big  `json:"amount,omitempty"`
	Revision  uint64        `json:"revision"`
	BuiltAt   int64         `json:"built_at"`
}

type EventType string

const (
	EventBidAccepted     EventType = "bid_accepted"
	EventSnapshotUpdated EventType = "snapshot_updated"
	EventPriceTick       EventType = "price_tick"
	EventPhaseChange     EventType = "phase_change"
	EventAuctionClaimed  EventType = "auction_claimed"
)

// AuctionEvent travels over pub/sub between the API, feed and recorder processes.
type AuctionEvent struct {
	Type      EventType `json:"type"`
	AuctionID string    `json:"auction_id"`
	Bidder    string    `json:"bidder,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Display   string    `json:"display,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Revision  uint64    `json:"revision,omitempty"`
	Block     uint64    `json:"block,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

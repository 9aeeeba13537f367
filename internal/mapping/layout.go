package mapping

import (
	"fmt"

	"auction-marketplace/internal/domain"
)

// Field names of the raw contract records, in return order.
const (
	fieldID             = "id"
	fieldName           = "name"
	fieldDescription    = "description"
	fieldImageURL       = "imgUrl"
	fieldAuctioneer     = "auctioneer"
	fieldAuctionType    = "auctionType"
	fieldAuctionedToken = "auctionedToken"
	fieldIDOrAmount     = "auctionedTokenIdOrAmount"
	fieldBiddingToken   = "biddingToken"
	fieldStartingPrice  = "startingPrice"
	fieldStartingBid    = "startingBid"
	fieldMinBid         = "minBid"
	fieldAvailableFunds = "availableFunds"
	fieldReservedPrice  = "reservedPrice"
	fieldMinBidDelta    = "minBidDelta"
	fieldHighestBid     = "highestBid"
	fieldWinningBid     = "winningBid"
	fieldWinner         = "winner"
	fieldDeadline       = "deadline"
	fieldDuration       = "duration"
	fieldCommitEnd      = "bidCommitEnd"
	fieldRevealEnd      = "bidRevealEnd"
	fieldIsClaimed      = "isClaimed"
)

var commonPrefix = []string{
	fieldID, fieldName, fieldDescription, fieldImageURL, fieldAuctioneer, fieldAuctionType,
	fieldAuctionedToken, fieldIDOrAmount, fieldBiddingToken,
}

var decayingLayout = append(append([]string{}, commonPrefix...),
	fieldStartingPrice, fieldAvailableFunds, fieldReservedPrice, fieldWinner,
	fieldDeadline, fieldDuration, fieldIsClaimed,
)

var layouts = map[domain.AuctionProtocol][]string{
	domain.ProtocolAscending: append(append([]string{}, commonPrefix...),
		fieldStartingBid, fieldAvailableFunds, fieldMinBidDelta, fieldHighestBid, fieldWinner,
		fieldDeadline, fieldDuration, fieldIsClaimed,
	),
	domain.ProtocolLinearDecay:      decayingLayout,
	domain.ProtocolExponentialDecay: decayingLayout,
	domain.ProtocolLogarithmicDecay: decayingLayout,
	domain.ProtocolSealedBid: append(append([]string{}, commonPrefix...),
		fieldMinBid, fieldAvailableFunds, fieldWinner, fieldWinningBid,
		fieldCommitEnd, fieldRevealEnd, fieldIsClaimed,
	),
}

// Arity returns the number of fields the protocol's contract returns per auction.
func Arity(protocol domain.AuctionProtocol) (int, error) {
	layout, ok := layouts[protocol]
	if !ok {
		return 0, fmt.Errorf("%w: %d", domain.ErrUnknownProtocol, uint8(protocol))
	}
	return len(layout), nil
}

// FieldNames returns the raw record layout of protocol.
func FieldNames(protocol domain.AuctionProtocol) []string {
	return append([]string(nil), layouts[protocol]...)
}

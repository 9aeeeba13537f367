package redis

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	auctionEventsChannel = "auction_events"
	snapshotsChannel     = "auction_snapshots"
)

func watchlistKey(userID string) string {
	return "watchlist:" + userID
}

func tokenSymbolKey(token common.Address) string {
	return fmt.Sprintf("token:%s:symbol", strings.ToLower(token.Hex()))
}

package mysql

import (
	"context"
	"database/sql"
	"math/big"
	"time"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// bidsSchema stores amounts as decimal strings: uint256 does not fit DECIMAL(65).
// The unique key makes replays of the same bid_accepted event harmless.
const bidsSchema = `
    CREATE TABLE IF NOT EXISTS auction_bids (
        id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        auction_id   VARCHAR(128) NOT NULL,
        bidder       CHAR(42)     NOT NULL,
        amount       VARCHAR(78)  NOT NULL,
        block_number BIGINT UNSIGNED NOT NULL DEFAULT 0,
        bid_time     BIGINT       NOT NULL,
        created_at   DATETIME     NOT NULL,
        UNIQUE KEY uq_auction_bid (auction_id, bidder, amount),
        KEY idx_auction_time (auction_id, bid_time)
    )
`

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, bidsSchema)
	return errors.Wrap(err, "create auction_bids")
}

// SaveBid appends to the history. Rows are never updated.
func (r *MySQLBidRepository) SaveBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT IGNORE INTO auction_bids (auction_id, bidder, amount, block_number, bid_time, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.AuctionID, bid.Bidder.Hex(), bid.Amount.String(),
		bid.BlockNumber, bid.Timestamp, time.Now().UTC())
	return errors.Wrapf(err, "save bid for %s", bid.AuctionID)
}

// GetBidHistory lists an auction's bids, newest first.
func (r *MySQLBidRepository) GetBidHistory(ctx context.Context, auctionID string) ([]*domain.Bid, error) {
	query := `
        SELECT auction_id, bidder, amount, block_number, bid_time
        FROM auction_bids
        WHERE auction_id = ?
        ORDER BY bid_time DESC, id DESC
    `

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, errors.Wrapf(err, "query bids for %s", auctionID)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var (
			bid    domain.Bid
			bidder string
			amount string
		)
		if err := rows.Scan(&bid.AuctionID, &bidder, &amount, &bid.BlockNumber, &bid.Timestamp); err != nil {
			return nil, errors.Wrap(err, "scan bid")
		}

		n, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("bid for %s has invalid amount %q", auctionID, amount)
		}
		bid.Amount = n
		bid.Bidder = common.HexToAddress(bidder)
		bids = append(bids, &bid)
	}

	return bids, errors.Wrap(rows.Err(), "iterate bids")
}

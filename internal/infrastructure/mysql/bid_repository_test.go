package mysql

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"auction-marketplace/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bidder = common.HexToAddress("0x4444444444444444444444444444444444444444")

func newMockRepository(t *testing.T) (*MySQLBidRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLBidRepository(db), mock
}

func TestGetBidHistory_NewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := domain.MustAuctionID(domain.ProtocolAscending, 1).Encode()

	mock.ExpectQuery(`SELECT auction_id, bidder, amount, block_number, bid_time\s+FROM auction_bids\s+WHERE auction_id = \?\s+ORDER BY bid_time DESC, id DESC`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id", "bidder", "amount", "block_number", "bid_time"}).
			AddRow(id, bidder.Hex(), "7", 12, 1600).
			AddRow(id, bidder.Hex(), "6", 11, 1500))

	bids, err := repo.GetBidHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, int64(7), bids[0].Amount.Int64())
	assert.Equal(t, int64(1600), bids[0].Timestamp)
	assert.Equal(t, uint64(12), bids[0].BlockNumber)
	assert.Equal(t, bidder, bids[0].Bidder)
	assert.Equal(t, int64(1500), bids[1].Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBidHistory_InvalidAmount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM auction_bids`).
		WillReturnRows(sqlmock.NewRows([]string{"auction_id", "bidder", "amount", "block_number", "bid_time"}).
			AddRow("x", bidder.Hex(), "1e3", 1, 1))

	_, err := repo.GetBidHistory(context.Background(), "x")
	assert.Error(t, err)
}

func TestSaveBid(t *testing.T) {
	repo, mock := newMockRepository(t)
	bid := &domain.Bid{AuctionID: "x", Bidder: bidder, Amount: big.NewInt(6), BlockNumber: 11, Timestamp: 1500}

	mock.ExpectExec(`INSERT IGNORE INTO auction_bids`).
		WithArgs("x", bidder.Hex(), "6", uint64(11), int64(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.SaveBid(context.Background(), bid))

	mock.ExpectExec(`INSERT IGNORE INTO auction_bids`).WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, repo.SaveBid(context.Background(), bid), "save bid for x")

	assert.NoError(t, mock.ExpectationsWereMet())
}

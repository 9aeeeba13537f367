package pricing

import (
	"math/big"
	"testing"

	"auction-marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_Dispatch(t *testing.T) {
	q, err := Quote(decaying(domain.ProtocolLinearDecay, big.NewInt(100), big.NewInt(20), 1000, 1000), 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(60), q.Price.Int64())
	assert.Equal(t, int64(1500), q.AsOf)

	q, err = Quote(ascending(10, 15, 2, 100), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(17), q.Price.Int64())

	q, err = Quote(sealed(100, 200), 50)
	require.NoError(t, err)
	assert.True(t, q.Hidden)

	_, err = Quote(&domain.AuctionSnapshot{ID: domain.AuctionID{Protocol: 99, Number: big.NewInt(1)}}, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownProtocol)
}

func TestStatus(t *testing.T) {
	linear := decaying(domain.ProtocolLinearDecay, big.NewInt(100), big.NewInt(20), 1000, 1000)
	assert.Equal(t, domain.AuctionUpcoming, Status(linear, 999))
	assert.Equal(t, domain.AuctionActive, Status(linear, 1000))
	assert.Equal(t, domain.AuctionActive, Status(linear, 1999))
	assert.Equal(t, domain.AuctionEnded, Status(linear, 2000))

	linear.IsClaimed = true
	assert.Equal(t, domain.AuctionClaimed, Status(linear, 1500))

	s := sealed(100, 200)
	assert.Equal(t, domain.AuctionActive, Status(s, 150))
	assert.Equal(t, domain.AuctionEnded, Status(s, 200))
}

func TestEnrich(t *testing.T) {
	e, err := Enrich(ascending(10, 15, 2, 100), 50)
	require.NoError(t, err)
	assert.Equal(t, domain.AuctionActive, e.Status)
	assert.Equal(t, domain.PhaseNone, e.Phase)
	require.NotNil(t, e.MinimumNextBid)
	assert.Equal(t, int64(17), e.MinimumNextBid.Int64())

	e, err = Enrich(sealed(100, 200), 150)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReveal, e.Phase)
	assert.Nil(t, e.MinimumNextBid)
	assert.True(t, e.Quote.Hidden)
}

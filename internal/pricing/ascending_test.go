package pricing

import (
	"math/big"
	"testing"

	"auction-marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumNextBid(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *domain.AuctionSnapshot
		expected int64
	}{
		{"no bids uses starting bid", ascending(10, 0, 2, 100), 10},
		{"highest plus delta", ascending(10, 15, 2, 100), 17},
		{"zero delta", ascending(10, 15, 0, 100), 15},
		{"nothing configured", &domain.AuctionSnapshot{ID: domain.MustAuctionID(domain.ProtocolAscending, 1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MinimumNextBid(tt.snapshot).Int64())
		})
	}
}

func TestValidateBid_Scenario(t *testing.T) {
	s := ascending(1, 5, 1, 1000)

	err := ValidateBid(s, big.NewInt(5), 500)
	var below *domain.BelowMinimumBidError
	require.ErrorAs(t, err, &below)
	assert.Equal(t, int64(6), below.Minimum.Int64())
	assert.Equal(t, int64(5), below.Candidate.Int64())
	assert.ErrorIs(t, err, domain.ErrBelowMinimumBid)

	assert.NoError(t, ValidateBid(s, big.NewInt(6), 500))
	assert.True(t, IsBidValid(s, big.NewInt(7), 500))
}

func TestValidateBid_Deadline(t *testing.T) {
	s := ascending(1, 5, 1, 1000)

	assert.NoError(t, ValidateBid(s, big.NewInt(6), 999))

	err := ValidateBid(s, big.NewInt(6), 1000)
	var ended *domain.AuctionEndedError
	require.ErrorAs(t, err, &ended)
	assert.Equal(t, int64(1000), ended.Deadline)
	assert.ErrorIs(t, err, domain.ErrAuctionEnded)
}

func TestValidateBid_Claimed(t *testing.T) {
	s := ascending(1, 5, 1, 1000)
	s.IsClaimed = true

	assert.ErrorIs(t, ValidateBid(s, big.NewInt(100), 10), domain.ErrAuctionAlreadyClaimed)
}

func TestValidateBid_NilAmount(t *testing.T) {
	err := ValidateBid(ascending(3, 0, 1, 1000), nil, 10)
	assert.ErrorIs(t, err, domain.ErrBelowMinimumBid)
}

func TestValidateBid_OtherProtocols(t *testing.T) {
	s := decaying(domain.ProtocolLinearDecay, big.NewInt(100), big.NewInt(20), 0, 1000)
	assert.ErrorIs(t, ValidateBid(s, big.NewInt(100), 10), domain.ErrUnsupportedOperation)
	assert.ErrorIs(t, ValidateBid(sealed(10, 20), big.NewInt(100), 5), domain.ErrUnsupportedOperation)
}

func TestValidateBid_ThresholdProperty(t *testing.T) {
	for _, highest := range []int64{0, 1, 5, 1_000_000} {
		for _, delta := range []int64{0, 1, 7} {
			s := ascending(3, highest, delta, 1000)
			minimum := MinimumNextBid(s)

			for offset := int64(-3); offset <= 3; offset++ {
				amount := new(big.Int).Add(minimum, big.NewInt(offset))
				if amount.Sign() < 0 {
					continue
				}
				assert.Equal(t, amount.Cmp(minimum) >= 0, IsBidValid(s, amount, 10),
					"highest=%d delta=%d amount=%s", highest, delta, amount)
			}
		}
	}
}

package pricing

import (
	"fmt"
	"math/big"
	"testing"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decayingProtocols = []domain.AuctionProtocol{
	domain.ProtocolLinearDecay,
	domain.ProtocolExponentialDecay,
	domain.ProtocolLogarithmicDecay,
}

func TestCurrentPrice_LinearScenario(t *testing.T) {
	s := decaying(domain.ProtocolLinearDecay, big.NewInt(100), big.NewInt(20), 1000, 1000)

	price, err := CurrentPrice(s, s.Deadline-s.Duration+500)
	require.NoError(t, err)
	assert.Equal(t, int64(60), price.Int64())
}

func TestCurrentPrice_CurveShapes(t *testing.T) {
	tests := []struct {
		name     string
		protocol domain.AuctionProtocol
		start    int64
		reserved int64
		elapsed  int64
		expected int64
	}{
		{"linear quarter", domain.ProtocolLinearDecay, 100, 20, 250, 80},
		{"linear truncates toward start", domain.ProtocolLinearDecay, 100, 0, 1, 100},
		{"exponential midpoint", domain.ProtocolExponentialDecay, 100, 0, 500, 9},
		{"exponential first second", domain.ProtocolExponentialDecay, 100, 0, 1, 99},
		{"logarithmic midpoint", domain.ProtocolLogarithmicDecay, 100, 20, 500, 28},
		{"logarithmic quarter", domain.ProtocolLogarithmicDecay, 100, 20, 250, 36},
		{"logarithmic first second", domain.ProtocolLogarithmicDecay, 100, 20, 1, 91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := decaying(tt.protocol, big.NewInt(tt.start), big.NewInt(tt.reserved), 0, 1000)
			price, err := CurrentPrice(s, tt.elapsed)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price.Int64())
		})
	}
}

func TestCurrentPrice_BoundariesAndMonotonicity(t *testing.T) {
	starts := []*big.Int{big.NewInt(100), ether(5), new(big.Int).Set(math.MaxBig256)}
	durations := []int64{1, 7, 1000, 86400}

	for _, protocol := range decayingProtocols {
		for _, start := range starts {
			reserves := []*big.Int{
				big.NewInt(0),
				big.NewInt(1),
				new(big.Int).Quo(start, big.NewInt(5)),
				new(big.Int).Set(start),
			}
			for _, reserved := range reserves {
				for _, duration := range durations {
					name := fmt.Sprintf("%s/start=%s/reserved=%s/d=%d", protocol, start, reserved, duration)
					t.Run(name, func(t *testing.T) {
						const startTime = 1_700_000_000
						s := decaying(protocol, start, reserved, startTime, duration)

						at := func(now int64) *big.Int {
							p, err := CurrentPrice(s, now)
							require.NoError(t, err)
							return p
						}

						assert.Equal(t, 0, at(s.Deadline-s.Duration).Cmp(start), "price at start")
						assert.Equal(t, 0, at(s.Deadline).Cmp(reserved), "price at deadline")
						assert.Equal(t, 0, at(s.Deadline+3600).Cmp(reserved), "price after deadline")
						assert.Equal(t, 0, at(startTime-3600).Cmp(start), "price before start")

						step := duration / 40
						if step == 0 {
							step = 1
						}
						prev := at(startTime)
						for now := startTime + step; now <= s.Deadline; now += step {
							cur := at(now)
							require.True(t, cur.Cmp(prev) <= 0, "price rose at t=%d: %s -> %s", now-startTime, prev, cur)
							require.True(t, cur.Cmp(reserved) >= 0, "price below reserve at t=%d", now-startTime)
							require.True(t, cur.Cmp(start) <= 0, "price above start at t=%d", now-startTime)
							prev = cur
						}
					})
				}
			}
		}
	}
}

func TestCurrentPrice_ZeroDuration(t *testing.T) {
	for _, protocol := range decayingProtocols {
		s := decaying(protocol, big.NewInt(100), big.NewInt(20), 1000, 0)
		for _, now := range []int64{0, 999, 1000, 1001, 1 << 40} {
			price, err := CurrentPrice(s, now)
			require.NoError(t, err)
			assert.Equal(t, int64(20), price.Int64(), "%s at %d", protocol, now)
		}
	}
}

func TestCurrentPrice_ClaimedIsStable(t *testing.T) {
	for _, protocol := range decayingProtocols {
		s := decaying(protocol, big.NewInt(100), big.NewInt(20), 1000, 1000)
		s.IsClaimed = true

		for _, now := range []int64{1000, 1500, 2000, 5000} {
			price, err := CurrentPrice(s, now)
			require.NoError(t, err)
			assert.Equal(t, int64(20), price.Int64())
		}
	}
}

func TestCurrentPrice_DoesNotAliasSnapshot(t *testing.T) {
	s := decaying(domain.ProtocolLinearDecay, big.NewInt(100), big.NewInt(20), 1000, 1000)

	price, err := CurrentPrice(s, 1000)
	require.NoError(t, err)
	price.SetInt64(1)
	assert.Equal(t, int64(100), s.StartingPrice.Int64())

	price, err = CurrentPrice(s, 2000)
	require.NoError(t, err)
	price.SetInt64(1)
	assert.Equal(t, int64(20), s.ReservedPrice.Int64())
}

func TestCurrentPrice_RejectsNonDecaying(t *testing.T) {
	_, err := CurrentPrice(ascending(1, 0, 1, 100), 10)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)

	_, err = CurrentPrice(sealed(10, 20), 10)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestElapsed(t *testing.T) {
	s := decaying(domain.ProtocolLinearDecay, big.NewInt(1), big.NewInt(0), 100, 50)
	assert.Equal(t, int64(0), Elapsed(s, 0))
	assert.Equal(t, int64(0), Elapsed(s, 100))
	assert.Equal(t, int64(25), Elapsed(s, 125))
	assert.Equal(t, int64(50), Elapsed(s, 150))
	assert.Equal(t, int64(50), Elapsed(s, 10_000))
}

func TestElapsed_HugeDuration(t *testing.T) {
	const maxSeconds = 1<<63 - 1
	s := &domain.AuctionSnapshot{
		ID:            domain.MustAuctionID(domain.ProtocolLinearDecay, 1),
		StartingPrice: big.NewInt(100),
		ReservedPrice: big.NewInt(20),
		Deadline:      2000,
		Duration:      maxSeconds,
	}

	assert.Equal(t, int64(maxSeconds), Elapsed(s, 2000))
	assert.Equal(t, int64(maxSeconds), Elapsed(s, 1_700_000_000))
	assert.Equal(t, int64(maxSeconds-1000), Elapsed(s, 1000))

	for _, protocol := range decayingProtocols {
		s.ID = domain.MustAuctionID(protocol, 1)
		price, err := CurrentPrice(s, 1_700_000_000)
		require.NoError(t, err)
		assert.Equal(t, int64(20), price.Int64(), protocol.String())
	}
}

package domain

import (
	"encoding/base64"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawID(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func TestAuctionID_RoundTrip(t *testing.T) {
	numbers := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(42),
		big.NewInt(1_000_000_007),
		new(big.Int).Lsh(big.NewInt(1), 128),
		new(big.Int).Set(math.MaxBig256),
	}

	for _, p := range AllProtocols() {
		for _, n := range numbers {
			encoded := EncodeAuctionID(p, n)
			decoded, err := DecodeAuctionID(encoded)
			require.NoError(t, err, "protocol=%s n=%s", p, n)
			assert.Equal(t, p, decoded.Protocol)
			assert.Equal(t, 0, n.Cmp(decoded.Number))
		}
	}
}

func TestAuctionID_Injective(t *testing.T) {
	seen := make(map[string]string)
	for _, p := range AllProtocols() {
		for n := int64(0); n < 200; n++ {
			encoded := EncodeAuctionID(p, big.NewInt(n))
			key := p.String() + "/" + big.NewInt(n).String()
			prev, dup := seen[encoded]
			require.False(t, dup, "%s collides with %s", key, prev)
			seen[encoded] = key
		}
	}
}

func TestDecodeAuctionID_Failures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrMalformedIdentifier},
		{"not base64", "!!!", ErrMalformedIdentifier},
		{"padded", base64.URLEncoding.EncodeToString([]byte("linear:1")), ErrMalformedIdentifier},
		{"no separator", rawID("linear"), ErrMalformedIdentifier},
		{"too many parts", rawID("linear:1:2"), ErrMalformedIdentifier},
		{"empty tag", rawID(":1"), ErrMalformedIdentifier},
		{"leading zero", rawID("linear:007"), ErrMalformedIdentifier},
		{"negative", rawID("linear:-1"), ErrMalformedIdentifier},
		{"hex number", rawID("linear:0x10"), ErrMalformedIdentifier},
		{"above uint256", rawID("linear:" + new(big.Int).Add(math.MaxBig256, big.NewInt(1)).String()), ErrMalformedIdentifier},
		{"embedded newline", rawID("linear:12")[:4] + "\n" + rawID("linear:12")[4:], ErrMalformedIdentifier},
		{"unknown protocol", rawID("dutch:1"), ErrUnknownProtocol},
		{"protocol tag is case sensitive", rawID("Linear:1"), ErrUnknownProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAuctionID(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewAuctionID(t *testing.T) {
	_, err := NewAuctionID(AuctionProtocol(99), big.NewInt(1))
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	_, err = NewAuctionID(ProtocolLinearDecay, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrMalformedIdentifier)

	_, err = NewAuctionID(ProtocolLinearDecay, nil)
	assert.ErrorIs(t, err, ErrMalformedIdentifier)

	n := big.NewInt(7)
	id, err := NewAuctionID(ProtocolSealedBid, n)
	require.NoError(t, err)
	n.SetInt64(8)
	assert.Equal(t, int64(7), id.Number.Int64(), "id must not alias the caller's big.Int")
}

func TestAuctionID_TextMarshalling(t *testing.T) {
	id := MustAuctionID(ProtocolExponentialDecay, 12)
	text, err := id.MarshalText()
	require.NoError(t, err)

	var back AuctionID
	require.NoError(t, back.UnmarshalText(text))
	assert.True(t, id.Equal(back))
}

func TestParseProtocol(t *testing.T) {
	for _, p := range AllProtocols() {
		parsed, err := ParseProtocol(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	parsed, err := ParseProtocol("  Vickrey ")
	require.NoError(t, err)
	assert.Equal(t, ProtocolSealedBid, parsed)

	_, err = ParseProtocol("dutch")
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	assert.True(t, ProtocolLogarithmicDecay.IsDecaying())
	assert.False(t, ProtocolAscending.IsDecaying())
	assert.False(t, ProtocolSealedBid.IsDecaying())
	assert.False(t, AuctionProtocol(0).Valid())
}

package mapping

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUint256(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		wantErr  bool
	}{
		{"big pointer", big.NewInt(5), "5", false},
		{"big value", *big.NewInt(6), "6", false},
		{"decimal string", "123456789012345678901234567890", "123456789012345678901234567890", false},
		{"hex string", "0xff", "255", false},
		{"json number", json.Number("42"), "42", false},
		{"uint8", uint8(1), "1", false},
		{"int", 12, "12", false},
		{"max uint256", math.MaxBig256.String(), math.MaxBig256.String(), false},
		{"above uint256", new(big.Int).Add(math.MaxBig256, big.NewInt(1)), "", true},
		{"negative int", -1, "", true},
		{"signed string", "+5", "", true},
		{"empty string", "", "", true},
		{"float", 1.0, "", true},
		{"fractional json number", json.Number("1.5"), "", true},
		{"bool", true, "", true},
		{"nil big", (*big.Int)(nil), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := toUint256(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.String())
		})
	}
}

func TestToUint256_CopiesInput(t *testing.T) {
	in := big.NewInt(5)
	out, err := toUint256(in)
	require.NoError(t, err)
	out.SetInt64(6)
	assert.Equal(t, int64(5), in.Int64())
}

func TestToAddress(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	got, err := toAddress("0x00000000000000000000000000000000000000AA")
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	got, err = toAddress(addr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = toAddress("0x1234")
	assert.Error(t, err)
	_, err = toAddress(1234)
	assert.Error(t, err)
}

func TestToBool(t *testing.T) {
	b, err := toBool("true")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = toBool(1)
	assert.Error(t, err)
}

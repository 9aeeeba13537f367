package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the fixed-point scale of the bidding tokens.
const TokenDecimals = 18

// FormatUnits renders a base-unit amount in whole tokens, e.g. 1500000000000000000 -> "1.5".
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return ""
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseUnits converts a whole-token string such as "1.5" into base units.
// Fractions finer than the scale are truncated.
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return d.Shift(decimals).Truncate(0).BigInt(), nil
}

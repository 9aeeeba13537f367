package pricing

import (
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"

	"github.com/cockroachdb/apd/v3"
)

// curvePrecision is the number of significant digits used for the
// exponential and logarithmic curves. uint256 values need 78.
const curvePrecision = 120

var (
	one  = big.NewInt(1)
	zero = big.NewInt(0)
)

// Elapsed returns clamp(now - (deadline - duration), 0, duration).
func Elapsed(s *domain.AuctionSnapshot, now int64) int64 {
	if s.Duration <= 0 {
		return 0
	}
	if now >= s.Deadline {
		return s.Duration
	}
	// Measured back from the deadline so huge durations cannot overflow.
	elapsed := s.Duration - (s.Deadline - now)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// CurrentPrice is the price a decaying-price auction can be bought at, at
// unix time now. The result is non-increasing in now, equals StartingPrice at
// the start and ReservedPrice from the deadline on. A claimed auction always
// reports ReservedPrice.
func CurrentPrice(s *domain.AuctionSnapshot, now int64) (*big.Int, error) {
	if !s.ID.Protocol.IsDecaying() {
		return nil, &domain.UnsupportedOperationError{Protocol: s.ID.Protocol, Operation: "current price"}
	}

	start := orZero(s.StartingPrice)
	reserved := orZero(s.ReservedPrice)

	if s.IsClaimed || s.Duration <= 0 || reserved.Cmp(start) >= 0 {
		return new(big.Int).Set(reserved), nil
	}

	elapsed := Elapsed(s, now)
	switch elapsed {
	case 0:
		return new(big.Int).Set(start), nil
	case s.Duration:
		return new(big.Int).Set(reserved), nil
	}

	var (
		price *big.Int
		err   error
	)
	switch s.ID.Protocol {
	case domain.ProtocolLinearDecay:
		price = linearPrice(start, reserved, elapsed, s.Duration)
	case domain.ProtocolExponentialDecay:
		price, err = exponentialPrice(start, reserved, elapsed, s.Duration)
	case domain.ProtocolLogarithmicDecay:
		price, err = logarithmicPrice(start, reserved, elapsed, s.Duration)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProtocol, s.ID.Protocol)
	}
	if err != nil {
		return nil, err
	}

	return clamp(price, reserved, start), nil
}

// linearPrice: start - (start - reserved) * elapsed / duration, truncated.
func linearPrice(start, reserved *big.Int, elapsed, duration int64) *big.Int {
	drop := new(big.Int).Sub(start, reserved)
	drop.Mul(drop, big.NewInt(elapsed))
	drop.Quo(drop, big.NewInt(duration))
	return drop.Sub(start, drop)
}

// exponentialPrice decays the excess over the floor by a constant factor per
// second:
//
//	price(t) = reserved - 1 + (start - reserved + 1) ^ (1 - t/duration)
//
// The per-second factor is (start - reserved + 1) ^ (-1/duration), which gives
// price(0) = start and price(duration) = reserved for any inputs, including a
// zero reserve.
func exponentialPrice(start, reserved *big.Int, elapsed, duration int64) (*big.Int, error) {
	ctx := apd.BaseContext.WithPrecision(curvePrecision)

	base := toDecimal(new(big.Int).Add(new(big.Int).Sub(start, reserved), one))
	remaining := apd.New(duration-elapsed, 0)

	var exponent, scaled apd.Decimal
	if _, err := ctx.Quo(&exponent, remaining, apd.New(duration, 0)); err != nil {
		return nil, fmt.Errorf("exponential exponent: %w", err)
	}
	if _, err := ctx.Pow(&scaled, base, &exponent); err != nil {
		return nil, fmt.Errorf("exponential pow: %w", err)
	}

	floor := toDecimal(new(big.Int).Sub(reserved, one))
	var price apd.Decimal
	if _, err := ctx.Add(&price, floor, &scaled); err != nil {
		return nil, fmt.Errorf("exponential add: %w", err)
	}
	return floorToBig(ctx, &price)
}

// logarithmicPrice drops fastest early on:
//
//	price(t) = start - (start - reserved) * ln(1 + t) / ln(1 + duration)
func logarithmicPrice(start, reserved *big.Int, elapsed, duration int64) (*big.Int, error) {
	ctx := apd.BaseContext.WithPrecision(curvePrecision)

	var lnElapsed, lnDuration, fraction apd.Decimal
	if _, err := ctx.Ln(&lnElapsed, apd.New(elapsed+1, 0)); err != nil {
		return nil, fmt.Errorf("logarithmic ln(t): %w", err)
	}
	if _, err := ctx.Ln(&lnDuration, apd.New(duration+1, 0)); err != nil {
		return nil, fmt.Errorf("logarithmic ln(d): %w", err)
	}
	if _, err := ctx.Quo(&fraction, &lnElapsed, &lnDuration); err != nil {
		return nil, fmt.Errorf("logarithmic fraction: %w", err)
	}

	var drop, price apd.Decimal
	if _, err := ctx.Mul(&drop, toDecimal(new(big.Int).Sub(start, reserved)), &fraction); err != nil {
		return nil, fmt.Errorf("logarithmic drop: %w", err)
	}
	if _, err := ctx.Sub(&price, toDecimal(start), &drop); err != nil {
		return nil, fmt.Errorf("logarithmic sub: %w", err)
	}
	return floorToBig(ctx, &price)
}

func toDecimal(x *big.Int) *apd.Decimal {
	return apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(x), 0)
}

func floorToBig(ctx *apd.Context, d *apd.Decimal) (*big.Int, error) {
	var floored, integral apd.Decimal
	if _, err := ctx.Floor(&floored, d); err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}
	if _, err := ctx.Quantize(&integral, &floored, 0); err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	out := integral.Coeff.MathBigInt()
	if integral.Negative {
		out.Neg(out)
	}
	return out, nil
}

func clamp(x, lo, hi *big.Int) *big.Int {
	if x.Cmp(lo) < 0 {
		return new(big.Int).Set(lo)
	}
	if x.Cmp(hi) > 0 {
		return new(big.Int).Set(hi)
	}
	return x
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return zero
	}
	return x
}

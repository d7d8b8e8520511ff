package protocol

import (
	"math"
	"math/big"
)

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrArithmeticUnderflow
	}
	return a - b, nil
}

// swapQuote prices one leg of a constant-product trade:
// floor(reserveOut * amountIn / (reserveIn + amountIn)), with no fee term.
// The numerator is widened through big.Int so the u64 multiplication cannot
// truncate. The quotient is strictly less than reserveOut whenever
// amountIn > 0, so it always fits back into a uint64.
func swapQuote(reserveOut, reserveIn, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}

	numerator := new(big.Int).Mul(
		new(big.Int).SetUint64(reserveOut),
		new(big.Int).SetUint64(amountIn),
	)
	denominator := new(big.Int).Add(
		new(big.Int).SetUint64(reserveIn),
		new(big.Int).SetUint64(amountIn),
	)

	quotient := new(big.Int).Quo(numerator, denominator)
	if !quotient.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return quotient.Uint64(), nil
}

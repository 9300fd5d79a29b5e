package types

import (
	"math/bits"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// AssetScale is the fixed-point denominator of UnitPrice: a price of AssetScale
// means one unit of raise currency buys one unit of the asset.
const AssetScale uint64 = 1_000_000_000

// CheckedAdd returns a+b or ErrArithmeticOverflow when the sum does not fit in 64 bits
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errorsmod.Wrapf(ErrArithmeticOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrArithmeticOverflow when b > a
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, errorsmod.Wrapf(ErrArithmeticOverflow, "%d - %d", a, b)
	}
	return diff, nil
}

// MulDiv computes floor(a*b/denom). The product is taken in arbitrary precision
// before dividing, so every pair of uint64 inputs is representable.
func MulDiv(a, b, denom uint64) (uint64, error) {
	if denom == 0 {
		return 0, errorsmod.Wrap(ErrArithmeticOverflow, "division by zero")
	}
	product := math.NewIntFromUint64(a).Mul(math.NewIntFromUint64(b))
	quotient := product.Quo(math.NewIntFromUint64(denom))
	if !quotient.IsUint64() {
		return 0, errorsmod.Wrapf(ErrArithmeticOverflow, "%d * %d / %d", a, b, denom)
	}
	return quotient.Uint64(), nil
}

// TokensForContribution converts a raise-currency amount into asset units at unitPrice
func TokensForContribution(amount, unitPrice uint64) (uint64, error) {
	return MulDiv(amount, AssetScale, unitPrice)
}

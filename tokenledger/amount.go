package tokenledger

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the precision of airdropped tokens; one whole token is
// 100_000_000 base units.
const DefaultDecimals = 8

// FormatAmount renders base units as a fixed-point token amount.
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).StringFixed(decimals)
}

// ParseAmount converts a token amount such as "2.5" into base units.
func ParseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	units := d.Shift(decimals)
	if units.IsNegative() || !units.IsInteger() {
		return 0, fmt.Errorf("%w: %q not representable with %d decimals", ErrInvalidAmount, s, decimals)
	}
	b := units.BigInt()
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: %q exceeds 64 bits", ErrInvalidAmount, s)
	}
	return b.Uint64(), nil
}

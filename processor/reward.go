package processor

import (
	"fmt"
	"math/bits"

	"github.com/bitfsorg/airdrop-go/programerr"
	"github.com/bitfsorg/airdrop-go/state"
)

// Scale converts reward points to token base units.
const Scale = 100_000_000

// Reward computes
//
//	(amountSpent*SpendingMultiplier + totalTransactions*TransactionMultiplier) * Scale
//
// in 64-bit arithmetic. Unchecked, every step wraps modulo 2^64; checked, any
// step that would wrap fails with ErrAmountOverflow.
func Reward(v *state.Vault, amountSpent, totalTransactions uint64, checked bool) (uint64, error) {
	if !checked {
		return (amountSpent*v.SpendingMultiplier + totalTransactions*v.TransactionMultiplier) * Scale, nil
	}
	spend, err := mul(amountSpent, v.SpendingMultiplier)
	if err != nil {
		return 0, err
	}
	txs, err := mul(totalTransactions, v.TransactionMultiplier)
	if err != nil {
		return 0, err
	}
	sum, carry := bits.Add64(spend, txs, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", programerr.ErrAmountOverflow, spend, txs)
	}
	return mul(sum, Scale)
}

func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", programerr.ErrAmountOverflow, a, b)
	}
	return lo, nil
}

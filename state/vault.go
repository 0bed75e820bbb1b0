package state

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// VaultSize is the fixed layout size:
// is_active(1) + initializer(32) + custody(32) + spending_mult(8) + txn_mult(8).
const VaultSize = 81

// Vault is the escrow record. It names the pool owner, the custody token
// account, and the reward multipliers fixed at initialization.
type Vault struct {
	IsActive              bool
	Initializer           solana.PublicKey // holds cancellation rights
	Custody               solana.PublicKey // token account controlled by the derived authority
	SpendingMultiplier    uint64
	TransactionMultiplier uint64
}

// IsInitialized reports whether the record is live. Never-initialized and
// cancelled records both report false.
func (v *Vault) IsInitialized() bool { return v.IsActive }

// UnpackVault decodes a vault record from account storage without requiring it
// to be initialized. A zero-filled slot decodes to an inactive record.
func UnpackVault(data []byte) (*Vault, error) {
	if len(data) < VaultSize {
		return nil, fmt.Errorf("%w: vault needs %d bytes, got %d", ErrSlotTooSmall, VaultSize, len(data))
	}
	active, err := unpackBool(data[0])
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	v := &Vault{IsActive: active}
	copy(v.Initializer[:], data[1:33])
	copy(v.Custody[:], data[33:65])
	v.SpendingMultiplier = binary.LittleEndian.Uint64(data[65:73])
	v.TransactionMultiplier = binary.LittleEndian.Uint64(data[73:81])
	return v, nil
}

// Pack writes the record into dst. Bytes beyond VaultSize are left untouched.
func (v *Vault) Pack(dst []byte) error {
	if len(dst) < VaultSize {
		return fmt.Errorf("%w: vault needs %d bytes, got %d", ErrSlotTooSmall, VaultSize, len(dst))
	}
	dst[0] = packBool(v.IsActive)
	copy(dst[1:33], v.Initializer[:])
	copy(dst[33:65], v.Custody[:])
	binary.LittleEndian.PutUint64(dst[65:73], v.SpendingMultiplier)
	binary.LittleEndian.PutUint64(dst[73:81], v.TransactionMultiplier)
	return nil
}

// EraseVault zero-fills the record region of dst, returning the slot to the
// never-initialized state.
func EraseVault(dst []byte) error {
	return (&Vault{}).Pack(dst)
}

func unpackBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: flag byte %d", ErrInvalidFlag, b)
	}
}

func packBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

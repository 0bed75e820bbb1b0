package state

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ClaimSize is the fixed layout size:
// is_active(1) + claimed(8) + claimant(32) + vault(32).
const ClaimSize = 73

// Claim is a per-user record tracking the one-time claim.
type Claim struct {
	IsActive bool
	Claimed  uint64 // 0 until delivered, then nonzero forever
	Claimant solana.PublicKey
	Vault    solana.PublicKey
}

// IsInitialized reports whether the claim has been registered.
func (c *Claim) IsInitialized() bool { return c.IsActive }

// HasClaimed reports whether the reward was already delivered.
func (c *Claim) HasClaimed() bool { return c.Claimed != 0 }

// UnpackClaim decodes a claim record without requiring it to be registered.
func UnpackClaim(data []byte) (*Claim, error) {
	if len(data) < ClaimSize {
		return nil, fmt.Errorf("%w: claim needs %d bytes, got %d", ErrSlotTooSmall, ClaimSize, len(data))
	}
	active, err := unpackBool(data[0])
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	c := &Claim{IsActive: active}
	c.Claimed = binary.LittleEndian.Uint64(data[1:9])
	copy(c.Claimant[:], data[9:41])
	copy(c.Vault[:], data[41:73])
	return c, nil
}

// Pack writes the record into dst.
func (c *Claim) Pack(dst []byte) error {
	if len(dst) < ClaimSize {
		return fmt.Errorf("%w: claim needs %d bytes, got %d", ErrSlotTooSmall, ClaimSize, len(dst))
	}
	dst[0] = packBool(c.IsActive)
	binary.LittleEndian.PutUint64(dst[1:9], c.Claimed)
	copy(dst[9:41], c.Claimant[:])
	copy(dst[41:73], c.Vault[:])
	return nil
}

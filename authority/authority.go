// Package authority derives the keyless custodian that controls escrowed
// token accounts.
//
// The authority is a program-derived address: a point off the ed25519 curve
// computed from a fixed seed and the program identity, so no private key
// exists for it. The host accepts the authority as a signer when the calling
// program presents the same seeds plus the bump found at derivation time.
package authority

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DefaultSeed is the seed used by deployed airdrop programs.
var DefaultSeed = []byte("")

// MaxSeedLen is the host limit on a single derivation seed.
const MaxSeedLen = 32

// Authority is a derived custodian and the data needed to sign as it.
type Authority struct {
	Address solana.PublicKey
	Bump    uint8
	Seed    []byte
}

// Derive computes the authority for programID. Every party holding the same
// seed and program identity derives the same address and bump.
func Derive(seed []byte, programID solana.PublicKey) (Authority, error) {
	if len(seed) > MaxSeedLen {
		return Authority{}, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(seed))
	}
	addr, bump, err := solana.FindProgramAddress([][]byte{seed}, programID)
	if err != nil {
		return Authority{}, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return Authority{
		Address: addr,
		Bump:    bump,
		Seed:    bytes.Clone(seed),
	}, nil
}

// SignerSeeds returns the seeds, bump last, that re-derive the address.
func (a Authority) SignerSeeds() [][]byte {
	return [][]byte{bytes.Clone(a.Seed), {a.Bump}}
}

// Proof returns the capability that authorizes external calls as a.
func (a Authority) Proof() Proof {
	return Proof{Authority: a.Address, Seeds: a.SignerSeeds()}
}

// ClaimSeed prefixes the seeds of per-user claim slots.
var ClaimSeed = []byte("claim")

// ClaimAddress derives the canonical claim slot for user under vault. Binding
// the slot address to (vault, user) leaves each user exactly one claim record
// per escrow.
func ClaimAddress(programID, vault, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{ClaimSeed, vault[:], user[:]}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: claim address: %w", ErrDerivationFailed, err)
	}
	return addr, bump, nil
}

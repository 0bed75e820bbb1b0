package authority

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Proof authorizes an external call on behalf of Authority.
//
// A direct proof (no seeds) stands for the authority's own transaction
// signature. A derived proof carries the signer seeds of a program-derived
// address and is checked by re-deriving the address under the calling
// program.
type Proof struct {
	Authority solana.PublicKey
	Seeds     [][]byte
}

// Direct returns a proof backed by key's transaction signature.
func Direct(key solana.PublicKey) Proof {
	return Proof{Authority: key}
}

// IsDerived reports whether the proof uses program-derived seeds.
func (p Proof) IsDerived() bool { return len(p.Seeds) > 0 }

// Verify checks the proof in the context of the calling program. isSigner
// reports whether a key signed the enclosing transaction.
func (p Proof) Verify(programID solana.PublicKey, isSigner func(solana.PublicKey) bool) error {
	if !p.IsDerived() {
		if isSigner == nil || !isSigner(p.Authority) {
			return fmt.Errorf("%w: %s", ErrNotSigned, p.Authority)
		}
		return nil
	}
	addr, err := solana.CreateProgramAddress(p.Seeds, programID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProofMismatch, err)
	}
	if !addr.Equals(p.Authority) {
		return fmt.Errorf("%w: seeds derive %s, want %s", ErrProofMismatch, addr, p.Authority)
	}
	return nil
}

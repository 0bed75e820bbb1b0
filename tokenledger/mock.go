package tokenledger

import (
	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/host"
)

// MockLedger is a test double for the token ledger collaborator.
// All function fields must be set before the corresponding method is called,
// except ProgramIDFn, which defaults to the SPL token program identity.
type MockLedger struct {
	ProgramIDFn    func() solana.PublicKey
	BalanceFn      func(inv *host.Invocation, acct *host.AccountInfo) (uint64, error)
	SetAuthorityFn func(inv *host.Invocation, acct *host.AccountInfo, newAuthority solana.PublicKey, proof authority.Proof) error
	TransferFn     func(inv *host.Invocation, from, to *host.AccountInfo, proof authority.Proof, amount uint64) error
}

func (m *MockLedger) ProgramID() solana.PublicKey {
	if m.ProgramIDFn == nil {
		return solana.TokenProgramID
	}
	return m.ProgramIDFn()
}
func (m *MockLedger) Balance(inv *host.Invocation, acct *host.AccountInfo) (uint64, error) {
	return m.BalanceFn(inv, acct)
}
func (m *MockLedger) SetAuthority(inv *host.Invocation, acct *host.AccountInfo, newAuthority solana.PublicKey, proof authority.Proof) error {
	return m.SetAuthorityFn(inv, acct, newAuthority, proof)
}
func (m *MockLedger) Transfer(inv *host.Invocation, from, to *host.AccountInfo, proof authority.Proof, amount uint64) error {
	return m.TransferFn(inv, from, to, proof, amount)
}

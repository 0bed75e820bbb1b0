package processor

import (
	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/instruction"
)

// The builders below lay out accounts in the order the handlers expect. The
// returned transactions are unsigned.

// InitAirdropTx builds an Initialize transaction.
func (p *Program) InitAirdropTx(initializer, custody, vault solana.PublicKey, ix instruction.InitAirdrop) *host.Transaction {
	return host.NewTransaction(p.id, ix.Pack(),
		host.Meta(initializer, false, true),
		host.Meta(custody, true, false),
		host.Meta(vault, true, false),
		host.Meta(solana.SysVarRentPubkey, false, false),
		host.Meta(p.ledger.ProgramID(), false, false),
	)
}

// DisableAirdropTx builds a Disable transaction refunding to creatorToken.
func (p *Program) DisableAirdropTx(creator, creatorToken, custody, vault solana.PublicKey, ix instruction.DisableAirdrop) (*host.Transaction, error) {
	auth, err := p.Authority()
	if err != nil {
		return nil, err
	}
	return host.NewTransaction(p.id, ix.Pack(),
		host.Meta(creator, false, true),
		host.Meta(creatorToken, true, false),
		host.Meta(custody, true, false),
		host.Meta(vault, true, false),
		host.Meta(p.ledger.ProgramID(), false, false),
		host.Meta(auth.Address, false, false),
	), nil
}

// CreateAccountTx builds a Register transaction for claim.
func (p *Program) CreateAccountTx(user, claim, vault solana.PublicKey, ix instruction.CreateAccount) *host.Transaction {
	return host.NewTransaction(p.id, ix.Pack(),
		host.Meta(user, false, true),
		host.Meta(claim, true, false),
		host.Meta(vault, false, false),
		host.Meta(solana.SysVarRentPubkey, false, false),
	)
}

// DeliverAirdropTx builds a Deliver transaction paying into userToken.
func (p *Program) DeliverAirdropTx(user, userToken, claim, vault, custody, initializer solana.PublicKey, ix instruction.DeliverAirdrop) (*host.Transaction, error) {
	auth, err := p.Authority()
	if err != nil {
		return nil, err
	}
	return host.NewTransaction(p.id, ix.Pack(),
		host.Meta(user, false, true),
		host.Meta(userToken, true, false),
		host.Meta(claim, true, false),
		host.Meta(vault, false, false),
		host.Meta(custody, true, false),
		host.Meta(initializer, false, false),
		host.Meta(p.ledger.ProgramID(), false, false),
		host.Meta(auth.Address, false, false),
	), nil
}

// Package processor implements the airdrop program: the four state
// transitions over escrow and claim records.
//
// Process decodes an instruction, validates the supplied accounts, and then
// mutates records and calls the token ledger. Every check returns on the first
// violation. Writes land in the host's working copies and commit only when
// Process returns nil, so a failed token call also rolls back the record
// update that preceded it.
package processor

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/instruction"
	"github.com/bitfsorg/airdrop-go/programerr"
)

// TokenLedger is the token program the airdrop calls into.
type TokenLedger interface {
	// ProgramID is the identity token accounts are owned by.
	ProgramID() solana.PublicKey
	Balance(inv *host.Invocation, acct *host.AccountInfo) (uint64, error)
	SetAuthority(inv *host.Invocation, acct *host.AccountInfo, newAuthority solana.PublicKey, proof authority.Proof) error
	Transfer(inv *host.Invocation, from, to *host.AccountInfo, proof authority.Proof, amount uint64) error
}

// Policy toggles behavior that deployments disagree on.
type Policy struct {
	// CheckedReward fails Deliver with AmountOverflow instead of letting the
	// reward wrap modulo 2^64.
	CheckedReward bool

	// EnforceExpectedAmount fails Disable with ExpectedAmountMismatch when the
	// requested amount exceeds the custody balance.
	EnforceExpectedAmount bool

	// BindClaimAddress requires each claim slot to live at
	// authority.ClaimAddress(program, vault, user).
	BindClaimAddress bool
}

// DefaultPolicy returns the policy new deployments run with.
func DefaultPolicy() Policy {
	return Policy{BindClaimAddress: true}
}

// Program is the airdrop program bound to its identity and collaborators.
type Program struct {
	id      solana.PublicKey
	ledger  TokenLedger
	deriver *authority.Deriver
	seed    []byte
	policy  Policy
}

// Option configures a Program.
type Option func(*Program)

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(prog *Program) { prog.policy = p }
}

// WithSeed sets the authority derivation seed. It is ignored when WithDeriver
// is also given.
func WithSeed(seed []byte) Option {
	return func(prog *Program) { prog.seed = seed }
}

// WithDeriver shares an authority cache between programs.
func WithDeriver(d *authority.Deriver) Option {
	return func(prog *Program) { prog.deriver = d }
}

// New returns the program registered under id.
func New(id solana.PublicKey, ledger TokenLedger, opts ...Option) (*Program, error) {
	if ledger == nil {
		return nil, ErrNilLedger
	}
	p := &Program{
		id:     id,
		ledger: ledger,
		seed:   authority.DefaultSeed,
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.deriver == nil {
		d, err := authority.NewDeriver(p.seed, authority.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		p.deriver = d
	}
	return p, nil
}

// ID returns the program identity.
func (p *Program) ID() solana.PublicKey { return p.id }

// Policy returns the active policy.
func (p *Program) Policy() Policy { return p.policy }

// Authority returns the derived custodian of every vault of this program.
func (p *Program) Authority() (authority.Authority, error) {
	return p.deriver.Derive(p.id)
}

// ClaimAddress returns the canonical claim slot of user under vault.
func (p *Program) ClaimAddress(vault, user solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := authority.ClaimAddress(p.id, vault, user)
	return addr, err
}

// Process is the program entry point.
func (p *Program) Process(inv *host.Invocation) error {
	if !inv.ProgramID.Equals(p.id) {
		return fmt.Errorf("%w: invoked as %s, registered as %s", programerr.ErrInvalidArgument, inv.ProgramID, p.id)
	}
	ix, err := instruction.Unpack(inv.Data)
	if err != nil {
		return err
	}
	inv.Log.Debug().Stringer("instruction", ix.Tag()).Msg("processing")

	switch ix := ix.(type) {
	case instruction.InitAirdrop:
		return p.initAirdrop(inv, ix)
	case instruction.DisableAirdrop:
		return p.disableAirdrop(inv, ix)
	case instruction.CreateAccount:
		return p.createAccount(inv, ix)
	case instruction.DeliverAirdrop:
		return p.deliverAirdrop(inv, ix)
	default:
		return fmt.Errorf("%w: %T", programerr.ErrInvalidInstruction, ix)
	}
}

// accounts returns the first n accounts of inv.
func accounts(inv *host.Invocation, n int) ([]*host.AccountInfo, error) {
	if len(inv.Accounts) < n {
		return nil, fmt.Errorf("%w: need %d, got %d", programerr.ErrNotEnoughAccountKeys, n, len(inv.Accounts))
	}
	return inv.Accounts[:n], nil
}

func requireSigner(ai *host.AccountInfo) error {
	if !ai.IsSigner {
		return fmt.Errorf("%w: %s", programerr.ErrMissingRequiredSignature, ai.Key)
	}
	return nil
}

func (p *Program) owns(ai *host.AccountInfo) bool {
	return ai.Owner.Equals(p.id)
}

func (p *Program) checkTokenProgram(ai *host.AccountInfo) error {
	if want := p.ledger.ProgramID(); !ai.Key.Equals(want) {
		return fmt.Errorf("%w: token program %s, want %s", programerr.ErrInvalidAccountData, ai.Key, want)
	}
	return nil
}

// custodian derives the authority and checks the account the caller passed
// for it.
func (p *Program) custodian(ai *host.AccountInfo) (authority.Authority, error) {
	auth, err := p.deriver.Derive(p.id)
	if err != nil {
		return authority.Authority{}, err
	}
	if ai != nil && !ai.Key.Equals(auth.Address) {
		return authority.Authority{}, fmt.Errorf("%w: authority account %s, want %s",
			programerr.ErrInvalidAccountData, ai.Key, auth.Address)
	}
	return auth, nil
}

func requireRentExempt(rentAcct, slot *host.AccountInfo) error {
	rent, err := host.RentFromAccount(rentAcct)
	if err != nil {
		return err
	}
	if !rent.IsExempt(slot.Lamports, slot.DataLen()) {
		return fmt.Errorf("%w: %s holds %d, needs %d", programerr.ErrNotRentExempt,
			slot.Key, slot.Lamports, rent.MinimumBalance(slot.DataLen()))
	}
	return nil
}

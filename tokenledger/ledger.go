// Package tokenledger is an in-process SPL-compatible token program.
//
// The airdrop program moves escrowed tokens by calling into this package with
// the same account handles it received from the host. Balance changes land in
// the invocation's working copies, so they commit or vanish together with the
// caller's own record writes. Each successful call records the equivalent SPL
// instruction on the invocation for clients that replay against a real chain.
package tokenledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/host"
)

// Ledger executes token operations against host account handles.
type Ledger struct {
	programID solana.PublicKey
}

// New returns a ledger answering to programID. A zero key selects the SPL
// token program identity.
func New(programID solana.PublicKey) *Ledger {
	if programID.IsZero() {
		programID = solana.TokenProgramID
	}
	return &Ledger{programID: programID}
}

// ProgramID returns the identity token accounts must be owned by.
func (l *Ledger) ProgramID() solana.PublicKey { return l.programID }

// NewAccount builds an initialized, rent-exempt token account owned by this
// ledger. owner is the token account's controlling authority.
func (l *Ledger) NewAccount(key, mint, owner solana.PublicKey, amount uint64) (*host.Account, error) {
	acct := host.NewAccount(key, l.programID, host.DefaultRent.MinimumBalance(AccountSize), AccountSize)
	ta := &TokenAccount{Mint: mint, Owner: owner, Amount: amount, State: StateInitialized}
	if err := ta.Pack(acct.Data); err != nil {
		return nil, err
	}
	return acct, nil
}

// Read decodes a committed token account.
func (l *Ledger) Read(acct *host.Account) (*TokenAccount, error) {
	if acct == nil {
		return nil, fmt.Errorf("%w: nil account", ErrInvalidAccountData)
	}
	if !acct.Owner.Equals(l.programID) {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenAccount, acct.Key)
	}
	return UnpackAccount(acct.Data)
}

func (l *Ledger) load(info *host.AccountInfo) (*TokenAccount, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: nil account", ErrInvalidAccountData)
	}
	if !info.Owner.Equals(l.programID) {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenAccount, info.Key)
	}
	ta, err := UnpackAccount(info.Data)
	if err != nil {
		return nil, err
	}
	switch ta.State {
	case StateUninitialized:
		return nil, fmt.Errorf("%w: %s", ErrUninitialized, info.Key)
	case StateFrozen:
		return nil, fmt.Errorf("%w: %s", ErrFrozen, info.Key)
	}
	return ta, nil
}

// Balance returns the token amount held by acct.
func (l *Ledger) Balance(_ *host.Invocation, acct *host.AccountInfo) (uint64, error) {
	ta, err := l.load(acct)
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

// SetAuthority hands control of acct to newAuthority. proof must stand for the
// account's current authority.
func (l *Ledger) SetAuthority(inv *host.Invocation, acct *host.AccountInfo, newAuthority solana.PublicKey, proof authority.Proof) error {
	ta, err := l.load(acct)
	if err != nil {
		return err
	}
	if err := l.authorize(inv, ta, proof); err != nil {
		return err
	}
	if !acct.IsWritable {
		return fmt.Errorf("%w: %s", ErrNotWritable, acct.Key)
	}

	ix, err := token.NewSetAuthorityInstruction(
		token.AuthorityAccountOwner,
		newAuthority,
		acct.Key,
		proof.Authority,
		nil,
	).ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("tokenledger: build set_authority: %w", err)
	}

	ta.Owner = newAuthority
	ta.Delegate = nil
	ta.DelegatedAmount = 0
	if ta.IsNative != nil {
		ta.CloseAuthority = nil
	}
	if err := ta.Pack(acct.Data); err != nil {
		return err
	}
	inv.RecordInvoke(ix)
	inv.Log.Debug().
		Str("account", acct.Key.String()).
		Str("authority", newAuthority.String()).
		Msg("token authority changed")
	return nil
}

// Transfer moves amount tokens from one account to another. proof must stand
// for the source account's authority.
func (l *Ledger) Transfer(inv *host.Invocation, from, to *host.AccountInfo, proof authority.Proof, amount uint64) error {
	src, err := l.load(from)
	if err != nil {
		return err
	}
	dst, err := l.load(to)
	if err != nil {
		return err
	}
	if err := l.authorize(inv, src, proof); err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: %s != %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if !from.IsWritable {
		return fmt.Errorf("%w: %s", ErrNotWritable, from.Key)
	}
	if !to.IsWritable {
		return fmt.Errorf("%w: %s", ErrNotWritable, to.Key)
	}

	ix, err := token.NewTransferInstruction(amount, from.Key, to.Key, proof.Authority, nil).ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("tokenledger: build transfer: %w", err)
	}

	// A self-transfer only checks funds.
	if !from.Key.Equals(to.Key) {
		if dst.Amount+amount < dst.Amount {
			return fmt.Errorf("%w: %d + %d", ErrOverflow, dst.Amount, amount)
		}
		src.Amount -= amount
		dst.Amount += amount
		if err := src.Pack(from.Data); err != nil {
			return err
		}
		if err := dst.Pack(to.Data); err != nil {
			return err
		}
	}
	inv.RecordInvoke(ix)
	inv.Log.Debug().
		Str("from", from.Key.String()).
		Str("to", to.Key.String()).
		Uint64("amount", amount).
		Msg("tokens transferred")
	return nil
}

func (l *Ledger) authorize(inv *host.Invocation, ta *TokenAccount, proof authority.Proof) error {
	if !proof.Authority.Equals(ta.Owner) {
		return fmt.Errorf("%w: account owned by %s, proof for %s", ErrOwnerMismatch, ta.Owner, proof.Authority)
	}
	return proof.Verify(inv.ProgramID, inv.IsSigner)
}

// Credited sums the recorded transfers into dst. It reads the amounts from
// the instructions themselves, so a self-transfer still reports what moved.
func Credited(invoked []solana.Instruction, dst solana.PublicKey) (uint64, error) {
	var total uint64
	for _, ix := range invoked {
		data, err := ix.Data()
		if err != nil {
			return 0, fmt.Errorf("tokenledger: encode recorded instruction: %w", err)
		}
		dec, err := token.DecodeInstruction(ix.Accounts(), data)
		if err != nil {
			return 0, fmt.Errorf("tokenledger: decode recorded instruction: %w", err)
		}
		t, ok := dec.Impl.(*token.Transfer)
		if !ok || t.Amount == nil || !t.GetDestinationAccount().PublicKey.Equals(dst) {
			continue
		}
		if total+*t.Amount < total {
			return 0, fmt.Errorf("%w: credited total", ErrOverflow)
		}
		total += *t.Amount
	}
	return total, nil
}

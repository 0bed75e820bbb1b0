package processor

import (
	"fmt"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/instruction"
	"github.com/bitfsorg/airdrop-go/programerr"
	"github.com/bitfsorg/airdrop-go/state"
)

// initAirdrop creates the escrow record and moves control of the custody
// token account to the derived authority.
//
//	0 [signer]   initializer
//	1 [writable] custody token account
//	2 [writable] vault slot
//	3 []         rent sysvar
//	4 []         token program
func (p *Program) initAirdrop(inv *host.Invocation, ix instruction.InitAirdrop) error {
	accts, err := accounts(inv, 5)
	if err != nil {
		return err
	}
	initializer, custody, vaultAcct, rentAcct, tokenProg := accts[0], accts[1], accts[2], accts[3], accts[4]

	if err := requireSigner(initializer); err != nil {
		return err
	}
	if !p.owns(vaultAcct) {
		return fmt.Errorf("%w: vault %s not owned by program", programerr.ErrInvalidAccountData, vaultAcct.Key)
	}
	if err := requireRentExempt(rentAcct, vaultAcct); err != nil {
		return err
	}
	vault, err := state.UnpackVault(vaultAcct.Data)
	if err != nil {
		return err
	}
	if vault.IsInitialized() {
		return fmt.Errorf("%w: vault %s", programerr.ErrAccountAlreadyInitialized, vaultAcct.Key)
	}
	if err := p.checkTokenProgram(tokenProg); err != nil {
		return err
	}
	auth, err := p.custodian(nil)
	if err != nil {
		return err
	}

	vault = &state.Vault{
		IsActive:              true,
		Initializer:           initializer.Key,
		Custody:               custody.Key,
		SpendingMultiplier:    ix.SpendingMultiplier,
		TransactionMultiplier: ix.TransactionMultiplier,
	}
	if err := vault.Pack(vaultAcct.Data); err != nil {
		return err
	}

	inv.Log.Debug().Str("custody", custody.Key.String()).Str("authority", auth.Address.String()).
		Msg("transferring custody to program authority")
	if err := p.ledger.SetAuthority(inv, custody, auth.Address, authority.Direct(initializer.Key)); err != nil {
		return fmt.Errorf("processor: set custody authority: %w", err)
	}

	inv.Log.Info().
		Str("vault", vaultAcct.Key.String()).
		Str("initializer", initializer.Key.String()).
		Uint64("spending_multiplier", ix.SpendingMultiplier).
		Uint64("transaction_multiplier", ix.TransactionMultiplier).
		Msg("airdrop initialized")
	return nil
}

// disableAirdrop returns the whole custody balance to the creator and erases
// the escrow record.
//
//	0 [signer]   creator
//	1 [writable] creator token account
//	2 [writable] custody token account
//	3 [writable] vault
//	4 []         token program
//	5 []         authority
func (p *Program) disableAirdrop(inv *host.Invocation, ix instruction.DisableAirdrop) error {
	accts, err := accounts(inv, 6)
	if err != nil {
		return err
	}
	creator, creatorToken, custody, vaultAcct, tokenProg, authAcct := accts[0], accts[1], accts[2], accts[3], accts[4], accts[5]

	if err := requireSigner(creator); err != nil {
		return err
	}
	vault, err := p.loadVault(vaultAcct)
	if err != nil {
		return err
	}
	if !custody.Key.Equals(vault.Custody) {
		return fmt.Errorf("%w: custody %s, vault names %s", programerr.ErrInvalidAccountData, custody.Key, vault.Custody)
	}
	if !creator.Key.Equals(vault.Initializer) {
		return fmt.Errorf("%w: %s", programerr.ErrNotCreator, creator.Key)
	}
	if err := p.checkTokenProgram(tokenProg); err != nil {
		return err
	}
	auth, err := p.custodian(authAcct)
	if err != nil {
		return err
	}

	balance, err := p.ledger.Balance(inv, custody)
	if err != nil {
		return fmt.Errorf("processor: custody balance: %w", err)
	}
	if p.policy.EnforceExpectedAmount && ix.Amount > balance {
		return fmt.Errorf("%w: requested %d, custody holds %d", programerr.ErrExpectedAmountMismatch, ix.Amount, balance)
	}

	inv.Log.Debug().Msg("cancelling airdrop")
	if err := p.ledger.Transfer(inv, custody, creatorToken, auth.Proof(), balance); err != nil {
		return fmt.Errorf("processor: refund creator: %w", err)
	}
	if err := state.EraseVault(vaultAcct.Data); err != nil {
		return err
	}

	inv.Log.Info().
		Str("vault", vaultAcct.Key.String()).
		Uint64("refunded", balance).
		Msg("airdrop disabled")
	return nil
}

// createAccount registers the signing user's claim record against an active
// vault.
//
//	0 [signer]   user
//	1 [writable] claim slot
//	2 []         vault
//	3 []         rent sysvar
func (p *Program) createAccount(inv *host.Invocation, ix instruction.CreateAccount) error {
	accts, err := accounts(inv, 4)
	if err != nil {
		return err
	}
	user, claimAcct, vaultAcct, rentAcct := accts[0], accts[1], accts[2], accts[3]

	if err := requireSigner(user); err != nil {
		return err
	}
	if !p.owns(claimAcct) {
		return fmt.Errorf("%w: claim %s not owned by program", programerr.ErrInvalidAccountData, claimAcct.Key)
	}
	if err := requireRentExempt(rentAcct, claimAcct); err != nil {
		return err
	}
	claim, err := state.UnpackClaim(claimAcct.Data)
	if err != nil {
		return err
	}
	if claim.IsInitialized() {
		return fmt.Errorf("%w: claim %s", programerr.ErrAccountAlreadyInitialized, claimAcct.Key)
	}
	if _, err := p.loadVault(vaultAcct); err != nil {
		return err
	}
	if p.policy.BindClaimAddress {
		want, err := p.ClaimAddress(vaultAcct.Key, user.Key)
		if err != nil {
			return err
		}
		if !claimAcct.Key.Equals(want) {
			return fmt.Errorf("%w: claim slot %s, want %s", programerr.ErrInvalidAccountData, claimAcct.Key, want)
		}
	}

	claim = &state.Claim{
		IsActive: true,
		Claimant: user.Key,
		Vault:    vaultAcct.Key,
	}
	if err := claim.Pack(claimAcct.Data); err != nil {
		return err
	}

	inv.Log.Info().
		Str("claim", claimAcct.Key.String()).
		Str("user", user.Key.String()).
		Uint64("amount_spent", ix.AmountSpent).
		Msg("claim registered")
	return nil
}

// deliverAirdrop pays the user's reward from custody and finalizes the claim.
//
//	0 [signer]   user
//	1 [writable] user token account
//	2 [writable] claim
//	3 []         vault
//	4 [writable] custody token account
//	5 []         initializer main account, unused
//	6 []         token program
//	7 []         authority
func (p *Program) deliverAirdrop(inv *host.Invocation, ix instruction.DeliverAirdrop) error {
	accts, err := accounts(inv, 8)
	if err != nil {
		return err
	}
	user, userToken, claimAcct, vaultAcct, custody := accts[0], accts[1], accts[2], accts[3], accts[4]
	tokenProg, authAcct := accts[6], accts[7]

	if err := requireSigner(user); err != nil {
		return err
	}
	vault, err := p.loadVault(vaultAcct)
	if err != nil {
		return err
	}
	claim, err := p.loadClaim(claimAcct)
	if err != nil {
		return err
	}
	if !claim.Claimant.Equals(user.Key) || !claim.Vault.Equals(vaultAcct.Key) {
		return fmt.Errorf("%w: claim %s belongs to %s under %s", programerr.ErrInvalidAccountData,
			claimAcct.Key, claim.Claimant, claim.Vault)
	}
	if claim.HasClaimed() {
		inv.Log.Debug().Str("user", user.Key.String()).Msg("user has already collected their airdrop")
		return fmt.Errorf("%w: claim %s", programerr.ErrUserAlreadyCollected, claimAcct.Key)
	}
	if !custody.Key.Equals(vault.Custody) {
		return fmt.Errorf("%w: custody %s, vault names %s", programerr.ErrInvalidAccountData, custody.Key, vault.Custody)
	}
	if err := p.checkTokenProgram(tokenProg); err != nil {
		return err
	}
	auth, err := p.custodian(authAcct)
	if err != nil {
		return err
	}

	inv.Log.Debug().
		Uint64("amount_spent", ix.AmountSpent).
		Uint64("total_transactions", ix.TotalTransactions).
		Msg("computing reward")
	reward, err := Reward(vault, ix.AmountSpent, ix.TotalTransactions, p.policy.CheckedReward)
	if err != nil {
		return err
	}
	if reward == 0 {
		return fmt.Errorf("%w: no tokens to collect", programerr.ErrInvalidAccountData)
	}

	if err := p.ledger.Transfer(inv, custody, userToken, auth.Proof(), reward); err != nil {
		return fmt.Errorf("processor: pay reward: %w", err)
	}
	claim.Claimed = 1
	if err := claim.Pack(claimAcct.Data); err != nil {
		return err
	}

	inv.Log.Info().
		Str("claim", claimAcct.Key.String()).
		Str("user", user.Key.String()).
		Uint64("reward", reward).
		Msg("airdrop delivered")
	return nil
}

// loadVault decodes an active escrow record. Records the program does not
// own are treated as absent.
func (p *Program) loadVault(ai *host.AccountInfo) (*state.Vault, error) {
	if !p.owns(ai) {
		return nil, fmt.Errorf("%w: vault %s not owned by program", programerr.ErrAccountNotInit, ai.Key)
	}
	v, err := state.UnpackVault(ai.Data)
	if err != nil {
		return nil, err
	}
	if !v.IsInitialized() {
		return nil, fmt.Errorf("%w: vault %s", programerr.ErrAccountNotInit, ai.Key)
	}
	return v, nil
}

func (p *Program) loadClaim(ai *host.AccountInfo) (*state.Claim, error) {
	if !p.owns(ai) {
		return nil, fmt.Errorf("%w: claim %s not owned by program", programerr.ErrAccountNotInit, ai.Key)
	}
	c, err := state.UnpackClaim(ai.Data)
	if err != nil {
		return nil, err
	}
	if !c.IsInitialized() {
		return nil, fmt.Errorf("%w: claim %s", programerr.ErrAccountNotInit, ai.Key)
	}
	return c, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/airdrop-go/config"
	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/instruction"
	"github.com/bitfsorg/airdrop-go/keystore"
	"github.com/bitfsorg/airdrop-go/programerr"
	"github.com/bitfsorg/airdrop-go/state"
	"github.com/bitfsorg/airdrop-go/tokenledger"
)

func newFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func cmdKeygen(_ context.Context, a *app, args []string) error {
	fs := newFlags("keygen", a)
	name := fs.String("name", "", "key name")
	words := fs.Int("words", 12, "mnemonic length (12 or 24)")
	mnemonic := fs.String("mnemonic", "", "recover from this mnemonic instead of generating one")
	passphrase := fs.String("passphrase", "", "optional BIP39 passphrase")
	if err := fs.Parse(args); err != nil {
		return err
	}

	generated := *mnemonic == ""
	if generated {
		bits := keystore.Mnemonic12Words
		if *words == 24 {
			bits = keystore.Mnemonic24Words
		}
		m, err := keystore.GenerateMnemonic(bits)
		if err != nil {
			return err
		}
		*mnemonic = m
	}
	key, err := keystore.SignerFromMnemonic(*mnemonic, *passphrase)
	if err != nil {
		return err
	}
	if err := a.keys.Save(*name, key, a.password); err != nil {
		return err
	}
	if generated {
		fmt.Fprintf(a.out, "mnemonic: %s\n", *mnemonic)
	}
	fmt.Fprintf(a.out, "%s: %s\n", *name, key.PublicKey())
	return nil
}

// ensureKey returns the address stored as name, generating a random key if
// none exists.
func ensureKey(a *app, name string) (solana.PublicKey, error) {
	pk, err := a.keys.PublicKey(name)
	if err == nil {
		return pk, nil
	}
	if !errors.Is(err, keystore.ErrKeyNotFound) {
		return solana.PublicKey{}, err
	}
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := a.keys.Save(name, key, a.password); err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

func cmdGenesis(ctx context.Context, a *app, args []string) error {
	if err := newFlags("genesis", a).Parse(args); err != nil {
		return err
	}
	programID, err := ensureKey(a, "program")
	if err != nil {
		return err
	}
	mint, err := ensureKey(a, "mint")
	if err != nil {
		return err
	}
	if a.cfg.ProgramID == "" {
		a.cfg.ProgramID = programID.String()
	}
	if err := config.SaveConfig(a.cfgPath, a.cfg); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	if err := a.rt.Allocate(ctx, host.RentSysvarAccount(host.DefaultRent)); err != nil {
		return err
	}
	auth, err := a.prog.Authority()
	if err != nil {
		return err
	}

	a.log.Info().Str("config", a.cfgPath).Msg("genesis complete")
	fmt.Fprintf(a.out, "program:   %s\n", a.prog.ID())
	fmt.Fprintf(a.out, "authority: %s (bump %d)\n", auth.Address, auth.Bump)
	fmt.Fprintf(a.out, "mint:      %s\n", mint)
	return nil
}

func (a *app) rent() host.Rent {
	acct, err := a.rt.Account(solana.SysVarRentPubkey)
	if err != nil {
		return host.DefaultRent
	}
	r, err := host.UnpackRent(acct.Data)
	if err != nil {
		return host.DefaultRent
	}
	return r
}

func (a *app) allocateSlot(ctx context.Context, key solana.PublicKey, size int) error {
	if _, err := a.rt.Account(key); err == nil {
		return fmt.Errorf("account %s already exists", key)
	}
	slot := host.NewAccount(key, a.prog.ID(), a.rent().MinimumBalance(size), size)
	return a.rt.Allocate(ctx, slot)
}

func cmdCreateSlot(ctx context.Context, a *app, args []string) error {
	fs := newFlags("create-slot", a)
	kind := fs.String("kind", "vault", "vault or claim")
	vault := fs.String("vault", "", "vault address (claim slots)")
	user := fs.String("user", "", "claimant name or address (claim slots)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}

	var key solana.PublicKey
	var size int
	switch *kind {
	case "vault":
		k, err := solana.NewRandomPrivateKey()
		if err != nil {
			return err
		}
		key, size = k.PublicKey(), state.VaultSize
	case "claim":
		v, err := a.resolve(*vault)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		u, err := a.resolve(*user)
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		if key, err = a.prog.ClaimAddress(v, u); err != nil {
			return err
		}
		size = state.ClaimSize
	default:
		return fmt.Errorf("unknown slot kind %q", *kind)
	}
	if err := a.allocateSlot(ctx, key, size); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s slot: %s\n", *kind, key)
	return nil
}

func cmdMint(ctx context.Context, a *app, args []string) error {
	fs := newFlags("mint", a)
	owner := fs.String("owner", "", "token account authority, name or address")
	amount := fs.String("amount", "0", "whole tokens, e.g. 100.5")
	mintFlag := fs.String("mint", "mint", "mint name or address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	ownerKey, err := a.resolve(*owner)
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	mint, err := a.resolve(*mintFlag)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	units, err := tokenledger.ParseAmount(*amount, tokenledger.DefaultDecimals)
	if err != nil {
		return err
	}
	k, err := solana.NewRandomPrivateKey()
	if err != nil {
		return err
	}
	acct, err := a.ledger.NewAccount(k.PublicKey(), mint, ownerKey, units)
	if err != nil {
		return err
	}
	if err := a.rt.Allocate(ctx, acct); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "token account: %s (%s tokens)\n", acct.Key, tokenledger.FormatAmount(units, tokenledger.DefaultDecimals))
	return nil
}

func cmdInit(ctx context.Context, a *app, args []string) error {
	fs := newFlags("init", a)
	creator := fs.String("creator", "", "initializer key name")
	custody := fs.String("custody", "", "custody token account")
	vault := fs.String("vault", "", "vault slot")
	spending := fs.Uint64("spending", 0, "spending multiplier")
	txn := fs.Uint64("txn", 0, "transaction multiplier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	key, err := a.signer(*creator)
	if err != nil {
		return err
	}
	custodyKey, err := a.resolve(*custody)
	if err != nil {
		return fmt.Errorf("custody: %w", err)
	}
	vaultKey, err := a.resolve(*vault)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}

	tx := a.prog.InitAirdropTx(key.PublicKey(), custodyKey, vaultKey,
		instruction.InitAirdrop{SpendingMultiplier: *spending, TransactionMultiplier: *txn})
	res, err := a.execute(ctx, tx, key)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "initialized %s (invocation %s)\n", vaultKey, res.ID)
	return nil
}

// vaultRecord reads the active escrow record at key.
func (a *app) vaultRecord(key solana.PublicKey) (*state.Vault, error) {
	acct, err := a.rt.Account(key)
	if err != nil {
		return nil, err
	}
	return state.UnpackVault(acct.Data)
}

func cmdDisable(ctx context.Context, a *app, args []string) error {
	fs := newFlags("disable", a)
	creator := fs.String("creator", "", "initializer key name")
	to := fs.String("to", "", "refund token account")
	vault := fs.String("vault", "", "vault address")
	amount := fs.Uint64("amount", 0, "expected refund in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	key, err := a.signer(*creator)
	if err != nil {
		return err
	}
	toKey, err := a.resolve(*to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	vaultKey, err := a.resolve(*vault)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	v, err := a.vaultRecord(vaultKey)
	if err != nil {
		return err
	}

	tx, err := a.prog.DisableAirdropTx(key.PublicKey(), toKey, v.Custody, vaultKey, instruction.DisableAirdrop{Amount: *amount})
	if err != nil {
		return err
	}
	if _, err := a.execute(ctx, tx, key); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "disabled %s\n", vaultKey)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register", a)
	user := fs.String("user", "", "user key name")
	vault := fs.String("vault", "", "vault address")
	spent := fs.Uint64("spent", 0, "amount spent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	key, err := a.signer(*user)
	if err != nil {
		return err
	}
	vaultKey, err := a.resolve(*vault)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	claim, err := a.prog.ClaimAddress(vaultKey, key.PublicKey())
	if err != nil {
		return err
	}
	if _, err := a.rt.Account(claim); errors.Is(err, host.ErrAccountNotFound) {
		if err := a.allocateSlot(ctx, claim, state.ClaimSize); err != nil {
			return err
		}
	}

	tx := a.prog.CreateAccountTx(key.PublicKey(), claim, vaultKey, instruction.CreateAccount{AmountSpent: *spent})
	if _, err := a.execute(ctx, tx, key); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "registered claim %s\n", claim)
	return nil
}

func cmdDeliver(ctx context.Context, a *app, args []string) error {
	fs := newFlags("deliver", a)
	user := fs.String("user", "", "user key name")
	to := fs.String("to", "", "user token account")
	vault := fs.String("vault", "", "vault address")
	spent := fs.Uint64("spent", 0, "amount spent")
	txs := fs.Uint64("txs", 0, "total transactions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	key, err := a.signer(*user)
	if err != nil {
		return err
	}
	toKey, err := a.resolve(*to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	vaultKey, err := a.resolve(*vault)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	v, err := a.vaultRecord(vaultKey)
	if err != nil {
		return err
	}
	claim, err := a.prog.ClaimAddress(vaultKey, key.PublicKey())
	if err != nil {
		return err
	}

	tx, err := a.prog.DeliverAirdropTx(key.PublicKey(), toKey, claim, vaultKey, v.Custody, v.Initializer,
		instruction.DeliverAirdrop{AmountSpent: *spent, TotalTransactions: *txs})
	if err != nil {
		return err
	}
	res, err := a.execute(ctx, tx, key)
	if err != nil {
		return describe(err)
	}
	paid, err := tokenledger.Credited(res.Invoked, toKey)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "delivered %s tokens to %s\n", tokenledger.FormatAmount(paid, tokenledger.DefaultDecimals), toKey)
	return nil
}

func cmdShow(_ context.Context, a *app, args []string) error {
	fs := newFlags("show", a)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: show <name|address>")
	}
	if err := a.open(); err != nil {
		return err
	}
	key, err := a.resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	acct, err := a.rt.Account(key)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "account:  %s\nowner:    %s\nlamports: %d\nsize:     %d\n", acct.Key, acct.Owner, acct.Lamports, len(acct.Data))
	switch a.kind(acct) {
	case "vault":
		v, err := state.UnpackVault(acct.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "vault:    active=%t initializer=%s custody=%s spending=%d txn=%d\n",
			v.IsActive, v.Initializer, v.Custody, v.SpendingMultiplier, v.TransactionMultiplier)
	case "claim":
		c, err := state.UnpackClaim(acct.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "claim:    active=%t claimed=%t claimant=%s vault=%s\n",
			c.IsActive, c.HasClaimed(), c.Claimant, c.Vault)
	case "token":
		ta, err := a.ledger.Read(acct)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "token:    mint=%s authority=%s amount=%s\n",
			ta.Mint, ta.Owner, tokenledger.FormatAmount(ta.Amount, tokenledger.DefaultDecimals))
	}
	return nil
}

func cmdKeys(_ context.Context, a *app, args []string) error {
	fs := newFlags("keys", a)
	if err := fs.Parse(args); err != nil {
		return err
	}
	names, err := a.keys.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "keystore: %s\n", a.keys.Dir())
	for _, name := range names {
		pk, err := a.keys.PublicKey(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", name, pk)
	}
	return nil
}

func cmdAccounts(_ context.Context, a *app, args []string) error {
	fs := newFlags("accounts", a)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	accts, err := a.store.List()
	if err != nil {
		return err
	}
	for _, acct := range accts {
		fmt.Fprintf(a.out, "%-44s %-8s lamports=%d size=%d\n", acct.Key, a.kind(acct), acct.Lamports, len(acct.Data))
	}
	return nil
}

// kind classifies acct by owner and size.
func (a *app) kind(acct *host.Account) string {
	switch {
	case acct.Owner.Equals(a.prog.ID()) && len(acct.Data) == state.VaultSize:
		return "vault"
	case acct.Owner.Equals(a.prog.ID()) && len(acct.Data) == state.ClaimSize:
		return "claim"
	case acct.Owner.Equals(a.ledger.ProgramID()):
		return "token"
	case acct.Key.Equals(solana.SysVarRentPubkey):
		return "sysvar"
	default:
		return "other"
	}
}

// describe appends the stable program code to err.
func describe(err error) error {
	if pe, ok := programerr.As(err); ok {
		return fmt.Errorf("%w [%s]", err, pe.String())
	}
	return err
}

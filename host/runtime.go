package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/airdrop-go/programerr"
)

// Program processes one invocation against working copies of its accounts.
type Program interface {
	Process(inv *Invocation) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(inv *Invocation) error

// Process calls f(inv).
func (f ProgramFunc) Process(inv *Invocation) error { return f(inv) }

// Invocation is everything a program sees while it runs.
type Invocation struct {
	ID        string
	ProgramID solana.PublicKey
	Accounts  []*AccountInfo // in transaction order; repeated keys share one handle
	Data      []byte
	Log       zerolog.Logger

	invoked []solana.Instruction
}

// IsSigner reports whether key signed the enclosing transaction.
func (inv *Invocation) IsSigner(key solana.PublicKey) bool {
	for _, a := range inv.Accounts {
		if a.IsSigner && a.Key.Equals(key) {
			return true
		}
	}
	return false
}

// RecordInvoke appends an instruction issued to another program.
func (inv *Invocation) RecordInvoke(ix solana.Instruction) {
	inv.invoked = append(inv.invoked, ix)
}

// Invoked returns the cross-program instructions issued so far.
func (inv *Invocation) Invoked() []solana.Instruction {
	return inv.invoked
}

// Result describes a committed invocation.
type Result struct {
	ID       string
	Invoked  []solana.Instruction
	Modified []solana.PublicKey
}

// Runtime executes transactions with all-or-nothing commit semantics.
type Runtime struct {
	store Store
	locks *lockTable
	log   zerolog.Logger

	mu       sync.RWMutex
	programs map[solana.PublicKey]Program
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// NewRuntime returns a runtime over store.
func NewRuntime(store Store, opts ...Option) *Runtime {
	r := &Runtime{
		store:    store,
		locks:    newLockTable(),
		log:      zerolog.Nop(),
		programs: make(map[solana.PublicKey]Program),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs p under id, replacing any previous program.
func (r *Runtime) Register(id solana.PublicKey, p Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[id] = p
}

func (r *Runtime) program(id solana.PublicKey) (Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[id]
	return p, ok
}

// Account returns the committed state of key.
func (r *Runtime) Account(key solana.PublicKey) (*Account, error) {
	return r.store.Get(key)
}

// Allocate commits pre-built accounts, e.g. caller-created storage slots or
// sysvars. It takes the same record locks as Execute.
func (r *Runtime) Allocate(ctx context.Context, accounts ...*Account) error {
	reqs := make([]lockReq, 0, len(accounts))
	for _, a := range accounts {
		if a == nil {
			return fmt.Errorf("%w: account", ErrNilParam)
		}
		reqs = append(reqs, lockReq{key: a.Key, writable: true})
	}
	release, err := r.locks.acquire(ctx, reqs)
	if err != nil {
		return fmt.Errorf("host: lock accounts: %w", err)
	}
	defer release()
	return r.store.Commit(accounts)
}

// Execute runs tx. On any failure nothing is written and the program's error
// is returned unchanged.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	id := uuid.NewString()
	log := r.log.With().Str("invocation", id).Str("program", tx.ProgramID.String()).Logger()

	if err := tx.Verify(); err != nil {
		log.Warn().Err(err).Msg("signature check failed")
		return nil, err
	}
	prog, ok := r.program(tx.ProgramID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, tx.ProgramID)
	}

	// Collapse repeated keys: one handle, flags OR-ed.
	infos := make(map[solana.PublicKey]*AccountInfo, len(tx.Accounts))
	order := make([]solana.PublicKey, 0, len(tx.Accounts))
	for _, m := range tx.Accounts {
		if info, seen := infos[m.PublicKey]; seen {
			info.IsSigner = info.IsSigner || m.IsSigner
			info.IsWritable = info.IsWritable || m.IsWritable
			continue
		}
		infos[m.PublicKey] = &AccountInfo{Key: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable}
		order = append(order, m.PublicKey)
	}

	reqs := make([]lockReq, 0, len(order))
	for _, k := range order {
		reqs = append(reqs, lockReq{key: k, writable: infos[k].IsWritable})
	}
	release, err := r.locks.acquire(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("host: lock accounts: %w", err)
	}
	defer release()

	originals := make(map[solana.PublicKey]*Account, len(order))
	for _, k := range order {
		acct, err := r.store.Get(k)
		if errors.Is(err, ErrAccountNotFound) {
			acct = &Account{Key: k, Owner: solana.SystemProgramID}
		} else if err != nil {
			return nil, fmt.Errorf("host: load %s: %w", k, err)
		}
		originals[k] = acct
		info := infos[k]
		info.Owner = acct.Owner
		info.Lamports = acct.Lamports
		info.Data = acct.Clone().Data
	}

	inv := &Invocation{
		ID:        id,
		ProgramID: tx.ProgramID,
		Accounts:  make([]*AccountInfo, len(tx.Accounts)),
		Data:      tx.Data,
		Log:       log,
	}
	for i, m := range tx.Accounts {
		inv.Accounts[i] = infos[m.PublicKey]
	}

	if err := prog.Process(inv); err != nil {
		ev := log.Info().Err(err)
		if pe, ok := programerr.As(err); ok {
			ev = ev.Stringer("code", pe)
		}
		ev.Msg("invocation failed; writes discarded")
		return nil, err
	}

	var dirty []*Account
	var modified []solana.PublicKey
	for _, k := range order {
		info := infos[k]
		if !info.modified(originals[k]) {
			continue
		}
		if !info.IsWritable {
			log.Warn().Str("account", k.String()).Msg("read-only account modified")
			return nil, fmt.Errorf("%w: %s", ErrReadonlyModified, k)
		}
		dirty = append(dirty, info.toAccount())
		modified = append(modified, k)
	}

	if len(dirty) > 0 {
		if err := r.store.Commit(dirty); err != nil {
			return nil, fmt.Errorf("host: commit: %w", err)
		}
	}
	log.Debug().Int("modified", len(modified)).Int("invoked", len(inv.invoked)).Msg("invocation committed")

	return &Result{ID: id, Invoked: inv.invoked, Modified: modified}, nil
}

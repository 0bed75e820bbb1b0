// Package host is an in-process ledger runtime for account-model programs.
//
// It loads the accounts a transaction names, hands working copies to the
// target program, and commits every modified writable account in a single
// store transaction only when the program succeeds. Accounts touched by a
// transaction are locked for its whole duration, so no two invocations
// interleave on the same record.
package host

import (
	"bytes"
	"slices"

	"github.com/gagliardetto/solana-go"
)

// Account is the persisted form of a ledger account.
type Account struct {
	Key      solana.PublicKey
	Owner    solana.PublicKey // program allowed to interpret Data
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	c := *a
	c.Data = slices.Clone(a.Data)
	return &c
}

// NewAccount returns an account with a zero-filled data slot of size bytes.
func NewAccount(key, owner solana.PublicKey, lamports uint64, size int) *Account {
	return &Account{
		Key:      key,
		Owner:    owner,
		Lamports: lamports,
		Data:     make([]byte, size),
	}
}

// AccountInfo is the handle a program sees for one account of an invocation.
// Programs mutate Data in place; the runtime decides whether the change
// commits.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// DataLen returns the size of the account's storage slot.
func (a *AccountInfo) DataLen() int { return len(a.Data) }

func (a *AccountInfo) toAccount() *Account {
	return &Account{
		Key:      a.Key,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     slices.Clone(a.Data),
	}
}

func (a *AccountInfo) modified(orig *Account) bool {
	return a.Lamports != orig.Lamports ||
		!a.Owner.Equals(orig.Owner) ||
		!bytes.Equal(a.Data, orig.Data)
}

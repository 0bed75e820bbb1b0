package tokenledger

import "errors"

var (
	// ErrInvalidAccountData indicates bytes that are not a token account layout.
	ErrInvalidAccountData = errors.New("tokenledger: invalid token account data")

	// ErrNotTokenAccount indicates an account not owned by the token program.
	ErrNotTokenAccount = errors.New("tokenledger: account not owned by token program")

	// ErrUninitialized indicates a token account that was never initialized.
	ErrUninitialized = errors.New("tokenledger: token account uninitialized")

	// ErrFrozen indicates a frozen token account.
	ErrFrozen = errors.New("tokenledger: token account frozen")

	// ErrOwnerMismatch indicates the proof is for a key other than the account's authority.
	ErrOwnerMismatch = errors.New("tokenledger: owner does not match")

	// ErrMintMismatch indicates a transfer between accounts of different mints.
	ErrMintMismatch = errors.New("tokenledger: mint mismatch")

	// ErrInsufficientFunds indicates the source balance is below the transfer amount.
	ErrInsufficientFunds = errors.New("tokenledger: insufficient funds")

	// ErrOverflow indicates the destination balance would exceed 64 bits.
	ErrOverflow = errors.New("tokenledger: balance overflow")

	// ErrNotWritable indicates a token account that must change but is read-only.
	ErrNotWritable = errors.New("tokenledger: account not writable")

	// ErrInvalidAmount indicates an amount string that cannot be represented.
	ErrInvalidAmount = errors.New("tokenledger: invalid amount")
)

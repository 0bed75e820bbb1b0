// Package programerr defines the stable error codes returned by the airdrop
// program and the host runtime that executes it.
//
// Codes come in two families. Builtin codes describe host-level failures
// (missing signatures, malformed accounts). Custom codes are owned by the
// airdrop program and are numbered in declaration order, so they stay stable
// across releases and can be surfaced to clients verbatim.
package programerr

import (
	"errors"
	"fmt"
)

// Error is a typed program failure. Sentinels are compared by identity, so
// wrapped errors still match with errors.Is.
type Error struct {
	Code   uint32
	Custom bool
	Msg    string
}

func (e *Error) Error() string {
	return "airdrop: " + e.Msg
}

// String renders the code family and number, e.g. "custom(5)".
func (e *Error) String() string {
	if e.Custom {
		return fmt.Sprintf("custom(%d)", e.Code)
	}
	return fmt.Sprintf("builtin(%d)", e.Code)
}

// Builtin codes.
const (
	CodeInvalidArgument uint32 = iota + 1
	CodeInvalidAccountData
	CodeAccountAlreadyInitialized
	CodeMissingRequiredSignature
	CodeNotEnoughAccountKeys
	CodeReadonlyDataModified
	CodeAccountNotFound
)

// Custom codes, matching the on-chain program's enum order.
const (
	CodeInvalidInstruction uint32 = iota
	CodeInvalidData
	CodeNotRentExempt
	CodeExpectedAmountMismatch
	CodeAmountOverflow
	CodeNotCreator
	CodeAccountNotInit
	CodeUserAlreadyCollected
)

var (
	// ErrInvalidArgument indicates an account or argument has the wrong identity.
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Msg: "invalid argument"}

	// ErrInvalidAccountData indicates supplied accounts do not match stored references.
	ErrInvalidAccountData = &Error{Code: CodeInvalidAccountData, Msg: "invalid account data"}

	// ErrAccountAlreadyInitialized indicates an attempt to re-initialize an active record.
	ErrAccountAlreadyInitialized = &Error{Code: CodeAccountAlreadyInitialized, Msg: "account already initialized"}

	// ErrMissingRequiredSignature indicates a required signer did not sign.
	ErrMissingRequiredSignature = &Error{Code: CodeMissingRequiredSignature, Msg: "missing required signature"}

	// ErrNotEnoughAccountKeys indicates the account list is shorter than the instruction needs.
	ErrNotEnoughAccountKeys = &Error{Code: CodeNotEnoughAccountKeys, Msg: "not enough account keys"}

	// ErrReadonlyDataModified indicates a program changed an account not marked writable.
	ErrReadonlyDataModified = &Error{Code: CodeReadonlyDataModified, Msg: "read-only account modified"}

	// ErrAccountNotFound indicates the account does not exist in the store.
	ErrAccountNotFound = &Error{Code: CodeAccountNotFound, Msg: "account not found"}
)

var (
	// ErrInvalidInstruction indicates an unknown instruction tag.
	ErrInvalidInstruction = &Error{Code: CodeInvalidInstruction, Custom: true, Msg: "invalid instruction"}

	// ErrInvalidData indicates an empty or truncated instruction buffer.
	ErrInvalidData = &Error{Code: CodeInvalidData, Custom: true, Msg: "invalid data input"}

	// ErrNotRentExempt indicates a storage slot lacks its reserve balance.
	ErrNotRentExempt = &Error{Code: CodeNotRentExempt, Custom: true, Msg: "not rent exempt"}

	// ErrExpectedAmountMismatch indicates the requested amount exceeds the custody balance.
	ErrExpectedAmountMismatch = &Error{Code: CodeExpectedAmountMismatch, Custom: true, Msg: "expected amount mismatch"}

	// ErrAmountOverflow indicates the reward computation overflowed 64 bits.
	ErrAmountOverflow = &Error{Code: CodeAmountOverflow, Custom: true, Msg: "amount overflow"}

	// ErrNotCreator indicates the caller is not the escrow's initializer.
	ErrNotCreator = &Error{Code: CodeNotCreator, Custom: true, Msg: "not creator"}

	// ErrAccountNotInit indicates the escrow or claim record is absent or cancelled.
	ErrAccountNotInit = &Error{Code: CodeAccountNotInit, Custom: true, Msg: "airdrop account not initialized"}

	// ErrUserAlreadyCollected indicates the claim record is already finalized.
	ErrUserAlreadyCollected = &Error{Code: CodeUserAlreadyCollected, Custom: true, Msg: "user already collected airdrop"}
)

// As extracts the typed program error from err, if any.
func As(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// CodeOf returns the code and family of err. ok is false for errors that did
// not originate from a program check, e.g. store I/O failures.
func CodeOf(err error) (code uint32, custom bool, ok bool) {
	pe, ok := As(err)
	if !ok {
		return 0, false, false
	}
	return pe.Code, pe.Custom, true
}

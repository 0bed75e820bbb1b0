package host

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/airdrop-go/programerr"
)

var (
	// ErrAccountNotFound indicates the store holds no account under the key.
	ErrAccountNotFound = fmt.Errorf("%w: host: account not found", programerr.ErrAccountNotFound)

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("host: required parameter is nil")

	// ErrUnknownProgram indicates no program is registered under the target identity.
	ErrUnknownProgram = fmt.Errorf("%w: host: unknown program", programerr.ErrInvalidArgument)

	// ErrMissingSignature indicates a signer account without a valid signature.
	ErrMissingSignature = fmt.Errorf("%w: host: signature missing or invalid", programerr.ErrMissingRequiredSignature)

	// ErrUnexpectedSigner indicates a key that signs but is not a signer account.
	ErrUnexpectedSigner = errors.New("host: key is not a signer of this transaction")

	// ErrReadonlyModified indicates a program changed an account not marked writable.
	ErrReadonlyModified = fmt.Errorf("%w: host: read-only account modified", programerr.ErrReadonlyDataModified)

	// ErrTooManyAccounts indicates a transaction naming more accounts than the wire format allows.
	ErrTooManyAccounts = errors.New("host: too many accounts")
)

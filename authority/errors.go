package authority

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/airdrop-go/programerr"
)

var (
	// ErrSeedTooLong indicates a derivation seed longer than MaxSeedLen.
	ErrSeedTooLong = errors.New("authority: seed too long")

	// ErrDerivationFailed indicates no off-curve address exists for the seeds.
	ErrDerivationFailed = errors.New("authority: derivation failed")

	// ErrNotSigned indicates a direct proof whose key did not sign.
	ErrNotSigned = fmt.Errorf("%w: authority: proof key did not sign", programerr.ErrMissingRequiredSignature)

	// ErrProofMismatch indicates derived seeds that do not reproduce the authority.
	ErrProofMismatch = fmt.Errorf("%w: authority: signer seeds do not match", programerr.ErrMissingRequiredSignature)
)

// Package state holds the fixed-layout records the airdrop program keeps in
// caller-allocated account storage.
package state

import (
	"fmt"

	"github.com/bitfsorg/airdrop-go/programerr"
)

var (
	// ErrSlotTooSmall indicates the account storage is shorter than the record layout.
	ErrSlotTooSmall = fmt.Errorf("%w: state: storage slot too small", programerr.ErrInvalidAccountData)

	// ErrInvalidFlag indicates a boolean byte other than 0 or 1.
	ErrInvalidFlag = fmt.Errorf("%w: state: invalid flag byte", programerr.ErrInvalidAccountData)
)

package host

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/airdrop-go/programerr"
)

const (
	// AccountStorageOverhead is charged on top of every account's data length.
	AccountStorageOverhead = 128

	// RentSysvarSize: lamports_per_byte_year(8) + exemption_threshold(8) + burn_percent(1).
	RentSysvarSize = 17
)

// Rent is the minimum-reserve policy published in the rent sysvar account.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64 // years of rent an exempt account must hold
	BurnPercent         uint8
}

// sysvarOwner owns every sysvar account.
var sysvarOwner = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")

// DefaultRent mirrors the mainnet parameters.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2.0,
	BurnPercent:         50,
}

// MinimumBalance returns the lamports an account of dataLen bytes must hold
// to be exempt from rent.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytesYear := (uint64(AccountStorageOverhead) + uint64(dataLen)) * r.LamportsPerByteYear
	return uint64(float64(bytesYear) * r.ExemptionThreshold)
}

// IsExempt reports whether lamports covers the reserve for dataLen bytes.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Pack encodes the sysvar account data.
func (r Rent) Pack() []byte {
	buf := make([]byte, RentSysvarSize)
	binary.LittleEndian.PutUint64(buf[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.ExemptionThreshold))
	buf[16] = r.BurnPercent
	return buf
}

// UnpackRent decodes sysvar account data.
func UnpackRent(data []byte) (Rent, error) {
	if len(data) < RentSysvarSize {
		return Rent{}, fmt.Errorf("%w: rent sysvar needs %d bytes, got %d",
			programerr.ErrInvalidArgument, RentSysvarSize, len(data))
	}
	return Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(data[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(data[8:16])),
		BurnPercent:         data[16],
	}, nil
}

// RentFromAccount reads the rent policy from the rent sysvar account. Any
// other account is rejected, so callers cannot substitute a lenient policy.
func RentFromAccount(acct *AccountInfo) (Rent, error) {
	if !acct.Key.Equals(solana.SysVarRentPubkey) {
		return Rent{}, fmt.Errorf("%w: %s is not the rent sysvar", programerr.ErrInvalidArgument, acct.Key)
	}
	return UnpackRent(acct.Data)
}

// RentSysvarAccount returns the sysvar account publishing r.
func RentSysvarAccount(r Rent) *Account {
	return &Account{
		Key:   solana.SysVarRentPubkey,
		Owner: sysvarOwner,
		Data:  r.Pack(),
	}
}

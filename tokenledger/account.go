package tokenledger

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountSize is the SPL token account layout size.
const AccountSize = 165

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	StateUninitialized AccountState = iota
	StateInitialized
	StateFrozen
)

// TokenAccount mirrors the SPL token account layout:
//
//	mint(32) owner(32) amount(8) delegate(COption<key>, 36) state(1)
//	is_native(COption<u64>, 12) delegated_amount(8) close_authority(COption<key>, 36)
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey // the account's controlling authority
	Amount          uint64
	Delegate        *solana.PublicKey
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// UnpackAccount decodes a token account.
func UnpackAccount(data []byte) (*TokenAccount, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccountData, AccountSize, len(data))
	}
	a := &TokenAccount{}
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	a.Amount = binary.LittleEndian.Uint64(data[64:72])

	var err error
	if a.Delegate, err = unpackOptionKey(data[72:108]); err != nil {
		return nil, err
	}
	a.State = AccountState(data[108])
	if a.State > StateFrozen {
		return nil, fmt.Errorf("%w: state %d", ErrInvalidAccountData, a.State)
	}
	switch tag := binary.LittleEndian.Uint32(data[109:113]); tag {
	case 0:
	case 1:
		v := binary.LittleEndian.Uint64(data[113:121])
		a.IsNative = &v
	default:
		return nil, fmt.Errorf("%w: option tag %d", ErrInvalidAccountData, tag)
	}
	a.DelegatedAmount = binary.LittleEndian.Uint64(data[121:129])
	if a.CloseAuthority, err = unpackOptionKey(data[129:165]); err != nil {
		return nil, err
	}
	return a, nil
}

// Pack encodes the account into dst, which must be AccountSize bytes.
func (a *TokenAccount) Pack(dst []byte) error {
	if len(dst) != AccountSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccountData, AccountSize, len(dst))
	}
	clear(dst)
	copy(dst[0:32], a.Mint[:])
	copy(dst[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(dst[64:72], a.Amount)
	packOptionKey(dst[72:108], a.Delegate)
	dst[108] = byte(a.State)
	if a.IsNative != nil {
		binary.LittleEndian.PutUint32(dst[109:113], 1)
		binary.LittleEndian.PutUint64(dst[113:121], *a.IsNative)
	}
	binary.LittleEndian.PutUint64(dst[121:129], a.DelegatedAmount)
	packOptionKey(dst[129:165], a.CloseAuthority)
	return nil
}

func unpackOptionKey(b []byte) (*solana.PublicKey, error) {
	switch tag := binary.LittleEndian.Uint32(b[0:4]); tag {
	case 0:
		return nil, nil
	case 1:
		k := solana.PublicKeyFromBytes(b[4:36])
		return &k, nil
	default:
		return nil, fmt.Errorf("%w: option tag %d", ErrInvalidAccountData, tag)
	}
}

func packOptionKey(dst []byte, k *solana.PublicKey) {
	if k == nil {
		return
	}
	binary.LittleEndian.PutUint32(dst[0:4], 1)
	copy(dst[4:36], k[:])
}

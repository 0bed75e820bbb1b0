// Package instruction implements the airdrop program's binary wire format.
//
// Every instruction is a one-byte tag followed by little-endian u64 fields:
//
//	tag 0  InitAirdrop     spending_multiplier u64, transaction_multiplier u64
//	tag 1  DisableAirdrop  amount u64
//	tag 2  CreateAccount   amount_spent u64
//	tag 3  DeliverAirdrop  amount_spent u64, total_transactions u64
//
// Bytes after the last field are ignored.
package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/airdrop-go/programerr"
)

// Tag is the leading discriminant byte.
type Tag uint8

const (
	TagInitAirdrop Tag = iota
	TagDisableAirdrop
	TagCreateAccount
	TagDeliverAirdrop
)

func (t Tag) String() string {
	switch t {
	case TagInitAirdrop:
		return "InitAirdrop"
	case TagDisableAirdrop:
		return "DisableAirdrop"
	case TagCreateAccount:
		return "CreateAccount"
	case TagDeliverAirdrop:
		return "DeliverAirdrop"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

const fieldSize = 8

// Instruction is one of InitAirdrop, DisableAirdrop, CreateAccount or
// DeliverAirdrop.
type Instruction interface {
	Tag() Tag
	// Pack encodes the instruction in wire format.
	Pack() []byte
}

// InitAirdrop creates the escrow and moves custody to the derived authority.
type InitAirdrop struct {
	SpendingMultiplier    uint64
	TransactionMultiplier uint64
}

// DisableAirdrop cancels the escrow and returns the pool to the creator.
// Amount is the creator's expected refund; it is only checked when the
// expected-amount policy is enabled.
type DisableAirdrop struct {
	Amount uint64
}

// CreateAccount registers a claim record for the signing user.
type CreateAccount struct {
	AmountSpent uint64
}

// DeliverAirdrop pays the user's reward and finalizes the claim record.
type DeliverAirdrop struct {
	AmountSpent       uint64
	TotalTransactions uint64
}

func (InitAirdrop) Tag() Tag    { return TagInitAirdrop }
func (DisableAirdrop) Tag() Tag { return TagDisableAirdrop }
func (CreateAccount) Tag() Tag  { return TagCreateAccount }
func (DeliverAirdrop) Tag() Tag { return TagDeliverAirdrop }

func (i InitAirdrop) Pack() []byte {
	return pack(TagInitAirdrop, i.SpendingMultiplier, i.TransactionMultiplier)
}

func (i DisableAirdrop) Pack() []byte { return pack(TagDisableAirdrop, i.Amount) }

func (i CreateAccount) Pack() []byte { return pack(TagCreateAccount, i.AmountSpent) }

func (i DeliverAirdrop) Pack() []byte {
	return pack(TagDeliverAirdrop, i.AmountSpent, i.TotalTransactions)
}

func pack(tag Tag, fields ...uint64) []byte {
	buf := make([]byte, 1+fieldSize*len(fields))
	buf[0] = byte(tag)
	for i, f := range fields {
		binary.LittleEndian.PutUint64(buf[1+i*fieldSize:], f)
	}
	return buf
}

// Unpack decodes a wire-format buffer. It fails with ErrInvalidData when the
// buffer is empty or a field is truncated, and with ErrInvalidInstruction for
// an unknown tag.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty instruction", programerr.ErrInvalidData)
	}
	tag, rest := Tag(data[0]), data[1:]

	switch tag {
	case TagInitAirdrop:
		f, err := unpackFields(rest, 2)
		if err != nil {
			return nil, err
		}
		return InitAirdrop{SpendingMultiplier: f[0], TransactionMultiplier: f[1]}, nil
	case TagDisableAirdrop:
		f, err := unpackFields(rest, 1)
		if err != nil {
			return nil, err
		}
		return DisableAirdrop{Amount: f[0]}, nil
	case TagCreateAccount:
		f, err := unpackFields(rest, 1)
		if err != nil {
			return nil, err
		}
		return CreateAccount{AmountSpent: f[0]}, nil
	case TagDeliverAirdrop:
		f, err := unpackFields(rest, 2)
		if err != nil {
			return nil, err
		}
		return DeliverAirdrop{AmountSpent: f[0], TotalTransactions: f[1]}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", programerr.ErrInvalidInstruction, uint8(tag))
	}
}

func unpackFields(rest []byte, n int) ([]uint64, error) {
	if len(rest) < n*fieldSize {
		return nil, fmt.Errorf("%w: expected %d bytes of fields, got %d",
			programerr.ErrInvalidData, n*fieldSize, len(rest))
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(rest[i*fieldSize:])
	}
	return out, nil
}

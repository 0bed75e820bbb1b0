package host

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// Transaction invokes one program with an ordered account list.
type Transaction struct {
	ProgramID  solana.PublicKey
	Accounts   []*solana.AccountMeta
	Data       []byte
	Signatures map[solana.PublicKey]solana.Signature
}

// NewTransaction builds an unsigned transaction.
func NewTransaction(programID solana.PublicKey, data []byte, accounts ...*solana.AccountMeta) *Transaction {
	return &Transaction{
		ProgramID:  programID,
		Accounts:   accounts,
		Data:       data,
		Signatures: make(map[solana.PublicKey]solana.Signature),
	}
}

// Meta is shorthand for an account meta.
func Meta(key solana.PublicKey, writable, signer bool) *solana.AccountMeta {
	return &solana.AccountMeta{PublicKey: key, IsWritable: writable, IsSigner: signer}
}

// Message returns the bytes every signer signs:
//
//	program_id(32) || n_accounts(u16) || n * (key(32) || flags(1)) || data_len(u32) || data
func (tx *Transaction) Message() ([]byte, error) {
	if len(tx.Accounts) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyAccounts, len(tx.Accounts))
	}
	buf := make([]byte, 0, 32+2+33*len(tx.Accounts)+4+len(tx.Data))
	buf = append(buf, tx.ProgramID[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(tx.Accounts)))
	for _, m := range tx.Accounts {
		var flags byte
		if m.IsSigner {
			flags |= 0x01
		}
		if m.IsWritable {
			flags |= 0x02
		}
		buf = append(buf, m.PublicKey[:]...)
		buf = append(buf, flags)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Data)))
	buf = append(buf, tx.Data...)
	return buf, nil
}

func (tx *Transaction) isSignerMeta(key solana.PublicKey) bool {
	for _, m := range tx.Accounts {
		if m.IsSigner && m.PublicKey.Equals(key) {
			return true
		}
	}
	return false
}

// Sign adds a signature for each key. Every key must belong to a signer account.
func (tx *Transaction) Sign(keys ...solana.PrivateKey) error {
	msg, err := tx.Message()
	if err != nil {
		return err
	}
	if tx.Signatures == nil {
		tx.Signatures = make(map[solana.PublicKey]solana.Signature)
	}
	for _, k := range keys {
		pub := k.PublicKey()
		if !tx.isSignerMeta(pub) {
			return fmt.Errorf("%w: %s", ErrUnexpectedSigner, pub)
		}
		sig, err := k.Sign(msg)
		if err != nil {
			return fmt.Errorf("host: sign: %w", err)
		}
		tx.Signatures[pub] = sig
	}
	return nil
}

// Verify checks that every signer account carries a valid signature.
func (tx *Transaction) Verify() error {
	msg, err := tx.Message()
	if err != nil {
		return err
	}
	for _, m := range tx.Accounts {
		if !m.IsSigner {
			continue
		}
		sig, ok := tx.Signatures[m.PublicKey]
		if !ok || !ed25519.Verify(ed25519.PublicKey(m.PublicKey[:]), msg, sig[:]) {
			return fmt.Errorf("%w: %s", ErrMissingSignature, m.PublicKey)
		}
	}
	return nil
}

package host

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"go.etcd.io/bbolt"
)

var bucketAccounts = []byte("accounts")

// BoltStore persists accounts in a bbolt database. Each Commit is one bbolt
// read-write transaction, which gives the runtime its all-or-nothing writes.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("host: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("host: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("host: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Get returns the account stored under key.
func (s *BoltStore) Get(key solana.PublicKey) (*Account, error) {
	var acct Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(key[:])
		if data == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, key)
		}
		if err := decodeGob(data, &acct); err != nil {
			return fmt.Errorf("boltstore: decode account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// Commit writes all accounts in one transaction.
func (s *BoltStore) Commit(accounts []*Account) error {
	for _, a := range accounts {
		if a == nil {
			return fmt.Errorf("%w: account", ErrNilParam)
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		for _, a := range accounts {
			data, err := encodeGob(a)
			if err != nil {
				return fmt.Errorf("encode account: %w", err)
			}
			if err := b.Put(a.Key[:], data); err != nil {
				return fmt.Errorf("boltstore: put account %s: %w", a.Key, err)
			}
		}
		return nil
	})
}

// List returns all stored accounts in key order.
func (s *BoltStore) List() ([]*Account, error) {
	var accounts []*Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var acct Account
			if err := decodeGob(v, &acct); err != nil {
				return fmt.Errorf("boltstore: decode account in list: %w", err)
			}
			accounts = append(accounts, &acct)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: list accounts: %w", err)
	}
	return accounts, nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

package host

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Store persists accounts.
type Store interface {
	// Get returns a copy of the account, or ErrAccountNotFound.
	Get(key solana.PublicKey) (*Account, error)

	// Commit writes all accounts atomically: either every write lands or none.
	Commit(accounts []*Account) error

	// List returns all stored accounts (for inspection and export).
	List() ([]*Account, error)
}

// MemStore is an in-memory Store for tests and simulations.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey]*Account
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[solana.PublicKey]*Account)}
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// Get returns a copy of the account.
func (s *MemStore) Get(key solana.PublicKey) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	return a.Clone(), nil
}

// Commit stores copies of accounts under one lock.
func (s *MemStore) Commit(accounts []*Account) error {
	for _, a := range accounts {
		if a == nil {
			return fmt.Errorf("%w: account", ErrNilParam)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		s.accounts[a.Key] = a.Clone()
	}
	return nil
}

// List returns copies of all accounts.
func (s *MemStore) List() ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		result = append(result, a.Clone())
	}
	return result, nil
}

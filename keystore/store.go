package keystore

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const (
	keyExt = ".key"
	pubExt = ".pub"
)

// Store keeps named, encrypted signers in a directory. Each key is two files:
// <name>.key holds the encrypted private key and <name>.pub the base58
// address, readable without the password.
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keystore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name, ext string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+ext), nil
}

// Save encrypts key under password and stores it as name. Existing keys are
// never overwritten.
func (s *Store) Save(name string, key solana.PrivateKey, password string) error {
	keyPath, err := s.path(name, keyExt)
	if err != nil {
		return err
	}
	pubPath, _ := s.path(name, pubExt)
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(key))
	}

	enc, err := Encrypt(key, password)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrKeyExists, name)
	}
	if err != nil {
		return fmt.Errorf("keystore: create %s: %w", keyPath, err)
	}
	if _, err := f.Write(enc); err != nil {
		_ = f.Close()
		_ = os.Remove(keyPath)
		return fmt.Errorf("keystore: write %s: %w", keyPath, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(keyPath)
		return fmt.Errorf("keystore: close %s: %w", keyPath, err)
	}
	if err := os.WriteFile(pubPath, []byte(key.PublicKey().String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("keystore: write %s: %w", pubPath, err)
	}
	return nil
}

// Load decrypts the key stored as name.
func (s *Store) Load(name, password string) (solana.PrivateKey, error) {
	keyPath, err := s.path(name, keyExt)
	if err != nil {
		return nil, err
	}
	enc, err := os.ReadFile(keyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", keyPath, err)
	}
	raw, err := Decrypt(enc, password)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(raw))
	}
	return solana.PrivateKey(raw), nil
}

// PublicKey returns the address stored as name without decrypting the key.
func (s *Store) PublicKey(name string) (solana.PublicKey, error) {
	pubPath, err := s.path(name, pubExt)
	if err != nil {
		return solana.PublicKey{}, err
	}
	b, err := os.ReadFile(pubPath)
	if errors.Is(err, fs.ErrNotExist) {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("keystore: read %s: %w", pubPath, err)
	}
	pk, err := solana.PublicKeyFromBase58(strings.TrimSpace(string(b)))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %w", ErrInvalidKey, name, err)
	}
	return pk, nil
}

// List returns the stored key names in lexical order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("keystore: list %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != keyExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), keyExt))
	}
	slices.Sort(names)
	return names, nil
}

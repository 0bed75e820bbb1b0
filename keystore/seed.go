// Package keystore manages the ed25519 signers that operate airdrops.
//
// Signers come from a BIP39 mnemonic: the first 32 bytes of the BIP39 seed
// are the ed25519 private seed, which matches how wallet tooling recovers a
// keypair from a phrase without a derivation path. Keys are stored on disk
// encrypted with Argon2id + AES-256-GCM.
package keystore

import (
	"crypto/ed25519"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"github.com/gagliardetto/solana-go"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256
)

// GenerateMnemonic creates a new BIP39 mnemonic with the given entropy bits.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("keystore: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("keystore: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic string is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte BIP39 seed from mnemonic + passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("keystore: derive seed: %w", err)
	}
	return seed, nil
}

// SignerFromSeed returns the ed25519 signer whose private seed is the first
// 32 bytes of seed.
func SignerFromSeed(seed []byte) (solana.PrivateKey, error) {
	if len(seed) < ed25519.SeedSize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidSeed, ed25519.SeedSize, len(seed))
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])), nil
}

// SignerFromMnemonic is SeedFromMnemonic followed by SignerFromSeed.
func SignerFromMnemonic(mnemonic, passphrase string) (solana.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return SignerFromSeed(seed)
}

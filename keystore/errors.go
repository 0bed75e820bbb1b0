package keystore

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("keystore: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("keystore: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or too short.
	ErrInvalidSeed = errors.New("keystore: invalid seed")

	// ErrDecryptionFailed indicates wrong password or corrupted key data.
	ErrDecryptionFailed = errors.New("keystore: decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("keystore: checksum mismatch")

	// ErrInvalidName indicates a key name that is empty or not a plain file name.
	ErrInvalidName = errors.New("keystore: invalid key name")

	// ErrKeyNotFound indicates no key is stored under the name.
	ErrKeyNotFound = errors.New("keystore: key not found")

	// ErrKeyExists indicates the name is already taken.
	ErrKeyExists = errors.New("keystore: key already exists")

	// ErrInvalidKey indicates decrypted bytes that are not an ed25519 private key.
	ErrInvalidKey = errors.New("keystore: invalid private key")
)

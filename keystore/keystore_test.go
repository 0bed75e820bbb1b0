package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic(t *testing.T) {
	for bits, words := range map[int]int{Mnemonic12Words: 12, Mnemonic24Words: 24} {
		m, err := GenerateMnemonic(bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(m), words)
		assert.True(t, ValidateMnemonic(m))
	}

	_, err := GenerateMnemonic(64)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestSeedFromMnemonic(t *testing.T) {
	s1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Len(t, s1, 64)

	s2, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, s1, s2, "derivation should be deterministic")

	s3, err := SeedFromMnemonic(testMnemonic, "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)

	_, err = SeedFromMnemonic("invalid mnemonic words here", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- Signer tests ---

func TestSignerFromMnemonic(t *testing.T) {
	k1, err := SignerFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	k2, err := SignerFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, k1.PublicKey(), k2.PublicKey())

	msg := []byte("register claim")
	sig, err := k1.Sign(msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(k1.PublicKey(), msg))
}

func TestSignerFromSeed_Short(t *testing.T) {
	_, err := SignerFromSeed(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

// --- Encryption tests ---

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	enc, err := Encrypt(secret, "pw")
	require.NoError(t, err)
	assert.Len(t, enc, SaltLen+NonceLen+len(secret)+ChecksumLen+16)

	dec, err := Decrypt(enc, "pw")
	require.NoError(t, err)
	assert.Equal(t, secret, dec)
}

func TestDecrypt_Failures(t *testing.T) {
	enc, err := Encrypt([]byte("secret"), "pw")
	require.NoError(t, err)

	_, err = Decrypt(enc, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = Decrypt([]byte{1, 2, 3}, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = Encrypt(nil, "pw")
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

// --- Store tests ---

func TestStore_SaveLoad(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	require.NoError(t, s.Save("creator", key, "pw"))

	got, err := s.Load("creator", "pw")
	require.NoError(t, err)
	assert.Equal(t, key, got)

	pub, err := s.PublicKey("creator")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), pub)

	info, err := os.Stat(filepath.Join(s.Dir(), "creator.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = s.Load("creator", "nope")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestStore_Errors(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.NoError(t, s.Save("a", key, "pw"))
	assert.ErrorIs(t, s.Save("a", key, "pw"), ErrKeyExists)

	_, err = s.Load("missing", "pw")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = s.PublicKey("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	for _, bad := range []string{"", "../escape", "dir/name", ".hidden"} {
		assert.ErrorIs(t, s.Save(bad, key, "pw"), ErrInvalidName, bad)
	}
	assert.ErrorIs(t, s.Save("short", key[:10], "pw"), ErrInvalidKey)
}

func TestStore_List(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, name := range []string{"user", "creator"} {
		key, err := solana.NewRandomPrivateKey()
		require.NoError(t, err)
		require.NoError(t, s.Save(name, key, "pw"))
	}
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"creator", "user"}, names)
}

package state

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/airdrop-go/programerr"
)

func makeKey(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed
	}
	return k
}

// --- Vault tests ---

func TestUnpackVault_ZeroSlot(t *testing.T) {
	v, err := UnpackVault(make([]byte, VaultSize))
	require.NoError(t, err)
	assert.False(t, v.IsInitialized())
	assert.True(t, v.Initializer.IsZero())
	assert.Zero(t, v.SpendingMultiplier)
}

func TestVault_PackUnpack(t *testing.T) {
	v := &Vault{
		IsActive:              true,
		Initializer:           makeKey(0xAA),
		Custody:               makeKey(0xBB),
		SpendingMultiplier:    2,
		TransactionMultiplier: 3,
	}
	buf := make([]byte, VaultSize)
	require.NoError(t, v.Pack(buf))

	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(0xAA), buf[1])
	assert.Equal(t, byte(0xBB), buf[33])
	assert.Equal(t, byte(2), buf[65])
	assert.Equal(t, byte(3), buf[73])

	decoded, err := UnpackVault(buf)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestVault_PackPreservesTrailingBytes(t *testing.T) {
	buf := make([]byte, VaultSize+2)
	buf[VaultSize] = 0x7f
	buf[VaultSize+1] = 0x01
	require.NoError(t, (&Vault{IsActive: true}).Pack(buf))
	assert.Equal(t, []byte{0x7f, 0x01}, buf[VaultSize:])
}

func TestEraseVault(t *testing.T) {
	buf := make([]byte, VaultSize)
	require.NoError(t, (&Vault{IsActive: true, Initializer: makeKey(1), SpendingMultiplier: 9}).Pack(buf))
	require.NoError(t, EraseVault(buf))
	assert.Equal(t, make([]byte, VaultSize), buf)
}

func TestVault_Errors(t *testing.T) {
	_, err := UnpackVault(make([]byte, VaultSize-1))
	assert.ErrorIs(t, err, ErrSlotTooSmall)
	assert.ErrorIs(t, err, programerr.ErrInvalidAccountData)

	err = (&Vault{}).Pack(make([]byte, 10))
	assert.ErrorIs(t, err, ErrSlotTooSmall)

	bad := make([]byte, VaultSize)
	bad[0] = 2
	_, err = UnpackVault(bad)
	assert.ErrorIs(t, err, ErrInvalidFlag)
}

// --- Claim tests ---

func TestClaim_PackUnpack(t *testing.T) {
	c := &Claim{IsActive: true, Claimed: 1, Claimant: makeKey(0x01), Vault: makeKey(0x02)}
	buf := make([]byte, ClaimSize)
	require.NoError(t, c.Pack(buf))

	decoded, err := UnpackClaim(buf)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
	assert.True(t, decoded.IsInitialized())
	assert.True(t, decoded.HasClaimed())
}

func TestUnpackClaim_ZeroSlot(t *testing.T) {
	c, err := UnpackClaim(make([]byte, ClaimSize))
	require.NoError(t, err)
	assert.False(t, c.IsInitialized())
	assert.False(t, c.HasClaimed())
}

func TestClaim_Errors(t *testing.T) {
	_, err := UnpackClaim([]byte{1})
	assert.ErrorIs(t, err, ErrSlotTooSmall)

	bad := make([]byte, ClaimSize)
	bad[0] = 0xff
	_, err = UnpackClaim(bad)
	assert.ErrorIs(t, err, ErrInvalidFlag)
}

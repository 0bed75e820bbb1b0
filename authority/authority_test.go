package authority

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/airdrop-go/programerr"
)

func programKey(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed
	}
	return k
}

func TestDerive_Deterministic(t *testing.T) {
	program := programKey(0x11)

	a1, err := Derive(DefaultSeed, program)
	require.NoError(t, err)
	a2, err := Derive(DefaultSeed, program)
	require.NoError(t, err)

	assert.Equal(t, a1.Address, a2.Address)
	assert.Equal(t, a1.Bump, a2.Bump)
}

func TestDerive_MatchesFindProgramAddress(t *testing.T) {
	program := programKey(0x22)
	want, bump, err := solana.FindProgramAddress([][]byte{[]byte("")}, program)
	require.NoError(t, err)

	a, err := Derive(DefaultSeed, program)
	require.NoError(t, err)
	assert.Equal(t, want, a.Address)
	assert.Equal(t, bump, a.Bump)
}

func TestDerive_DependsOnProgramAndSeed(t *testing.T) {
	a, err := Derive(DefaultSeed, programKey(0x01))
	require.NoError(t, err)
	b, err := Derive(DefaultSeed, programKey(0x02))
	require.NoError(t, err)
	c, err := Derive([]byte("airdrop"), programKey(0x01))
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.Address, c.Address)
}

func TestDerive_SeedTooLong(t *testing.T) {
	_, err := Derive(make([]byte, MaxSeedLen+1), programKey(0x01))
	assert.ErrorIs(t, err, ErrSeedTooLong)

	_, err = NewDeriver(make([]byte, MaxSeedLen+1), 0)
	assert.ErrorIs(t, err, ErrSeedTooLong)
}

func TestProof_Derived(t *testing.T) {
	program := programKey(0x33)
	a, err := Derive(DefaultSeed, program)
	require.NoError(t, err)

	proof := a.Proof()
	assert.True(t, proof.IsDerived())
	require.NoError(t, proof.Verify(program, nil))

	// Same seeds under a different program do not reproduce the authority.
	err = proof.Verify(programKey(0x34), nil)
	assert.ErrorIs(t, err, ErrProofMismatch)
	assert.ErrorIs(t, err, programerr.ErrMissingRequiredSignature)

	// Tampered bump.
	bad := a.Proof()
	bad.Seeds[1] = []byte{a.Bump - 1}
	assert.ErrorIs(t, bad.Verify(program, nil), ErrProofMismatch)
}

func TestProof_Direct(t *testing.T) {
	signer := programKey(0x44)
	proof := Direct(signer)
	assert.False(t, proof.IsDerived())

	signed := func(k solana.PublicKey) bool { return k == signer }
	require.NoError(t, proof.Verify(programKey(0x01), signed))

	err := Direct(programKey(0x45)).Verify(programKey(0x01), signed)
	assert.ErrorIs(t, err, ErrNotSigned)
	assert.ErrorIs(t, Direct(signer).Verify(programKey(0x01), nil), ErrNotSigned)
}

func TestSignerSeeds_AreCopies(t *testing.T) {
	a, err := Derive([]byte("seed"), programKey(0x55))
	require.NoError(t, err)
	seeds := a.SignerSeeds()
	seeds[0][0] = 'X'
	assert.Equal(t, []byte("seed"), a.Seed)
}

func TestDeriver_Cache(t *testing.T) {
	d, err := NewDeriver(DefaultSeed, 2)
	require.NoError(t, err)

	want, err := Derive(DefaultSeed, programKey(0x66))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := d.Derive(programKey(0x66))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 1, d.cache.Len())

	_, err = d.Derive(programKey(0x67))
	require.NoError(t, err)
	_, err = d.Derive(programKey(0x68))
	require.NoError(t, err)
	assert.Equal(t, 2, d.cache.Len())
	assert.Equal(t, DefaultSeed, d.Seed())
}

func TestClaimAddress(t *testing.T) {
	program := programKey(0x77)
	vault := programKey(0x01)

	a1, _, err := ClaimAddress(program, vault, programKey(0xA1))
	require.NoError(t, err)
	a2, _, err := ClaimAddress(program, vault, programKey(0xA2))
	require.NoError(t, err)
	again, _, err := ClaimAddress(program, vault, programKey(0xA1))
	require.NoError(t, err)
	other, _, err := ClaimAddress(program, programKey(0x02), programKey(0xA1))
	require.NoError(t, err)

	assert.NotEqual(t, a1, a2)
	assert.Equal(t, a1, again)
	assert.NotEqual(t, a1, other)
}

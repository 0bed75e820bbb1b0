package tokenledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/programerr"
)

func makeKey(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed
	}
	return k
}

var (
	callerProgram = makeKey(0xA0)
	mint          = makeKey(0xB0)
)

func info(t *testing.T, acct *host.Account, writable, signer bool) *host.AccountInfo {
	t.Helper()
	return &host.AccountInfo{
		Key:        acct.Key,
		Owner:      acct.Owner,
		Lamports:   acct.Lamports,
		Data:       acct.Data,
		IsWritable: writable,
		IsSigner:   signer,
	}
}

func newInvocation(accts ...*host.AccountInfo) *host.Invocation {
	return &host.Invocation{ProgramID: callerProgram, Accounts: accts, Log: zerolog.Nop()}
}

func tokenAccount(t *testing.T, l *Ledger, key, owner solana.PublicKey, amount uint64) *host.Account {
	t.Helper()
	acct, err := l.NewAccount(key, mint, owner, amount)
	require.NoError(t, err)
	return acct
}

func amountOf(t *testing.T, ai *host.AccountInfo) uint64 {
	t.Helper()
	ta, err := UnpackAccount(ai.Data)
	require.NoError(t, err)
	return ta.Amount
}

// --- Layout tests ---

func TestTokenAccount_PackUnpack(t *testing.T) {
	delegate := makeKey(3)
	native := uint64(2039280)
	closeAuth := makeKey(4)
	orig := &TokenAccount{
		Mint:            makeKey(1),
		Owner:           makeKey(2),
		Amount:          1_000_000,
		Delegate:        &delegate,
		State:           StateInitialized,
		IsNative:        &native,
		DelegatedAmount: 77,
		CloseAuthority:  &closeAuth,
	}
	buf := make([]byte, AccountSize)
	require.NoError(t, orig.Pack(buf))

	assert.Equal(t, byte(1), buf[72], "delegate option tag")
	assert.Equal(t, byte(1), buf[108], "state byte")

	got, err := UnpackAccount(buf)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestTokenAccount_Errors(t *testing.T) {
	_, err := UnpackAccount(make([]byte, 10))
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	buf := make([]byte, AccountSize)
	buf[108] = 9
	_, err = UnpackAccount(buf)
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	buf[108] = 1
	buf[72] = 2
	_, err = UnpackAccount(buf)
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	assert.ErrorIs(t, (&TokenAccount{}).Pack(make([]byte, 5)), ErrInvalidAccountData)
}

// --- Transfer tests ---

func TestTransfer_DirectSigner(t *testing.T) {
	l := New(solana.PublicKey{})
	owner := makeKey(0x11)
	from := info(t, tokenAccount(t, l, makeKey(1), owner, 500), true, false)
	to := info(t, tokenAccount(t, l, makeKey(2), makeKey(0x22), 0), true, false)
	signer := &host.AccountInfo{Key: owner, IsSigner: true}
	inv := newInvocation(signer, from, to)

	require.NoError(t, l.Transfer(inv, from, to, authority.Direct(owner), 200))
	assert.Equal(t, uint64(300), amountOf(t, from))
	assert.Equal(t, uint64(200), amountOf(t, to))

	require.Len(t, inv.Invoked(), 1)
	assert.Equal(t, solana.TokenProgramID, inv.Invoked()[0].ProgramID())

	credited, err := Credited(inv.Invoked(), to.Key)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), credited)
	credited, err = Credited(inv.Invoked(), from.Key)
	require.NoError(t, err)
	assert.Zero(t, credited)
}

func TestCredited_SelfTransferAndAuthorityChange(t *testing.T) {
	l := New(solana.PublicKey{})
	owner := makeKey(0x11)
	acct := info(t, tokenAccount(t, l, makeKey(1), owner, 500), true, false)
	inv := newInvocation(&host.AccountInfo{Key: owner, IsSigner: true}, acct)

	require.NoError(t, l.Transfer(inv, acct, acct, authority.Direct(owner), 120))
	require.NoError(t, l.Transfer(inv, acct, acct, authority.Direct(owner), 30))
	require.NoError(t, l.SetAuthority(inv, acct, makeKey(0x55), authority.Direct(owner)))
	assert.Equal(t, uint64(500), amountOf(t, acct))

	credited, err := Credited(inv.Invoked(), acct.Key)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), credited)

	credited, err = Credited(nil, acct.Key)
	require.NoError(t, err)
	assert.Zero(t, credited)
}

func TestTransfer_DerivedAuthority(t *testing.T) {
	l := New(solana.PublicKey{})
	auth, err := authority.Derive(authority.DefaultSeed, callerProgram)
	require.NoError(t, err)

	from := info(t, tokenAccount(t, l, makeKey(1), auth.Address, 50), true, false)
	to := info(t, tokenAccount(t, l, makeKey(2), makeKey(0x22), 0), true, false)
	inv := newInvocation(from, to)

	require.NoError(t, l.Transfer(inv, from, to, auth.Proof(), 50))
	assert.Equal(t, uint64(0), amountOf(t, from))
	assert.Equal(t, uint64(50), amountOf(t, to))

	// The same seeds under a different caller derive a different address.
	inv.ProgramID = makeKey(0xA1)
	err = l.Transfer(inv, from, to, auth.Proof(), 0)
	assert.ErrorIs(t, err, authority.ErrProofMismatch)
}

func TestTransfer_Rejections(t *testing.T) {
	l := New(solana.PublicKey{})
	owner := makeKey(0x11)
	signer := &host.AccountInfo{Key: owner, IsSigner: true}

	t.Run("unsigned owner", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		to := info(t, tokenAccount(t, l, makeKey(2), owner, 0), true, false)
		err := l.Transfer(newInvocation(from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, programerr.ErrMissingRequiredSignature)
	})

	t.Run("wrong owner", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), makeKey(0x33), 5), true, false)
		to := info(t, tokenAccount(t, l, makeKey(2), owner, 0), true, false)
		err := l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, ErrOwnerMismatch)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		to := info(t, tokenAccount(t, l, makeKey(2), owner, 0), true, false)
		err := l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 6)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, uint64(5), amountOf(t, from))
	})

	t.Run("mint mismatch", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		other, err := l.NewAccount(makeKey(2), makeKey(0xB1), owner, 0)
		require.NoError(t, err)
		to := info(t, other, true, false)
		err = l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, ErrMintMismatch)
	})

	t.Run("overflow", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		to := info(t, tokenAccount(t, l, makeKey(2), owner, ^uint64(0)), true, false)
		err := l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, ErrOverflow)
		assert.Equal(t, uint64(5), amountOf(t, from))
	})

	t.Run("not a token account", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		to := &host.AccountInfo{Key: makeKey(2), Owner: solana.SystemProgramID, Data: make([]byte, AccountSize), IsWritable: true}
		err := l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, ErrNotTokenAccount)
	})

	t.Run("read-only destination", func(t *testing.T) {
		from := info(t, tokenAccount(t, l, makeKey(1), owner, 5), true, false)
		to := info(t, tokenAccount(t, l, makeKey(2), owner, 0), false, false)
		err := l.Transfer(newInvocation(signer, from, to), from, to, authority.Direct(owner), 1)
		assert.ErrorIs(t, err, ErrNotWritable)
	})
}

// --- SetAuthority tests ---

func TestSetAuthority(t *testing.T) {
	l := New(solana.PublicKey{})
	owner := makeKey(0x11)
	delegate := makeKey(0x44)
	acct := tokenAccount(t, l, makeKey(1), owner, 9)
	ta, err := UnpackAccount(acct.Data)
	require.NoError(t, err)
	ta.Delegate = &delegate
	ta.DelegatedAmount = 3
	require.NoError(t, ta.Pack(acct.Data))

	ai := info(t, acct, true, false)
	inv := newInvocation(&host.AccountInfo{Key: owner, IsSigner: true}, ai)
	newAuth := makeKey(0x55)

	require.NoError(t, l.SetAuthority(inv, ai, newAuth, authority.Direct(owner)))
	got, err := UnpackAccount(ai.Data)
	require.NoError(t, err)
	assert.Equal(t, newAuth, got.Owner)
	assert.Nil(t, got.Delegate)
	assert.Zero(t, got.DelegatedAmount)
	assert.Equal(t, uint64(9), got.Amount)
	require.Len(t, inv.Invoked(), 1)

	ix := inv.Invoked()[0]
	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 35)
	assert.Equal(t, byte(token.Instruction_SetAuthority), data[0])
	assert.Equal(t, byte(token.AuthorityAccountOwner), data[1])
	assert.Equal(t, byte(1), data[2])
	assert.Equal(t, newAuth[:], data[3:])
	accts := ix.Accounts()
	require.Len(t, accts, 2)
	assert.Equal(t, acct.Key, accts[0].PublicKey)
	assert.Equal(t, owner, accts[1].PublicKey)

	// The previous owner no longer controls the account.
	err = l.SetAuthority(inv, ai, owner, authority.Direct(owner))
	assert.ErrorIs(t, err, ErrOwnerMismatch)
}

func TestBalance(t *testing.T) {
	l := New(solana.PublicKey{})
	ai := info(t, tokenAccount(t, l, makeKey(1), makeKey(2), 1234), false, false)
	bal, err := l.Balance(newInvocation(ai), ai)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), bal)

	frozen := tokenAccount(t, l, makeKey(3), makeKey(2), 1)
	frozen.Data[108] = byte(StateFrozen)
	_, err = l.Balance(nil, info(t, frozen, false, false))
	assert.ErrorIs(t, err, ErrFrozen)

	empty := host.NewAccount(makeKey(4), l.ProgramID(), 0, AccountSize)
	_, err = l.Balance(nil, info(t, empty, false, false))
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestNew_CustomProgramID(t *testing.T) {
	id := makeKey(0x77)
	l := New(id)
	assert.Equal(t, id, l.ProgramID())
	acct := tokenAccount(t, l, makeKey(1), makeKey(2), 0)
	assert.Equal(t, id, acct.Owner)
	assert.True(t, host.DefaultRent.IsExempt(acct.Lamports, AccountSize))

	_, err := New(solana.PublicKey{}).Read(acct)
	assert.ErrorIs(t, err, ErrNotTokenAccount)
}

// --- Amount tests ---

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "22.00000000", FormatAmount(2_200_000_000, DefaultDecimals))
	assert.Equal(t, "0.00000001", FormatAmount(1, DefaultDecimals))
	assert.Equal(t, "184467440737.09551615", FormatAmount(^uint64(0), DefaultDecimals))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("22", DefaultDecimals)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_200_000_000), v)

	v, err = ParseAmount("0.5", DefaultDecimals)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000_000), v)

	for _, bad := range []string{"abc", "-1", "0.000000001", "999999999999"} {
		_, err := ParseAmount(bad, DefaultDecimals)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

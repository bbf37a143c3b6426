// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package crypto

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccount(t *testing.T) {
	account, err := GenerateAccount()
	require.NoError(t, err)
	assert.Len(t, account.PrivateKey, ed25519.PrivateKeySize)
	assert.False(t, account.Address.IsZero())
}

func TestAccountFromSeedDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{1}, ed25519.SeedSize)
	a, err := AccountFromSeed(seed)
	require.NoError(t, err)
	b, err := AccountFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Address, b.Address)

	other, err := AccountFromSeed(bytes.Repeat([]byte{2}, ed25519.SeedSize))
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, other.Address)
}

func TestAccountFromSeedWrongSize(t *testing.T) {
	_, err := AccountFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSignVerifiesUnderAddress(t *testing.T) {
	account, err := GenerateAccount()
	require.NoError(t, err)

	msg := []byte("canonical message bytes")
	sig := account.Sign(msg)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(account.Address[:]), msg, sig))
	assert.False(t, ed25519.Verify(ed25519.PublicKey(account.Address[:]), []byte("other"), sig))
}

func TestBase58KeyRoundTrip(t *testing.T) {
	account, err := GenerateAccount()
	require.NoError(t, err)

	encoded, err := account.Base58PrvKey()
	require.NoError(t, err)

	restored, err := AccountFromBase58Key(encoded)
	require.NoError(t, err)
	assert.Equal(t, account.Address, restored.Address)
}

func TestAccountFromMnemonic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	a, err := AccountFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	b, err := AccountFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, a.Address, b.Address)

	withPassword, err := AccountFromMnemonic(mnemonic, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, withPassword.Address)

	_, err = AccountFromMnemonic("not a valid mnemonic sentence", "")
	assert.Error(t, err)
}

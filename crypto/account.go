// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"

	"github.com/cielu/go-solnode/common"
)

// Account pairs an address with the Ed25519 private key that controls it.
type Account struct {
	Address    common.Address
	PrivateKey ed25519.PrivateKey
}

// GenerateAccount Random a new account from ed25519
func GenerateAccount() (Account, error) {
	var account Account
	// Random generateKey
	pub, prv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return account, err
	}
	copy(account.Address[:], pub)
	account.PrivateKey = prv
	// return account
	return account, err
}

// AccountFromBytes generate an account by private key bytes
func AccountFromBytes(b []byte) (Account, error) {
	// match privateKeySize
	if len(b) != ed25519.PrivateKeySize {
		return Account{}, fmt.Errorf("PrivateKey size mismatch, expected: %v, got: %v", ed25519.PrivateKeySize, len(b))
	}
	account := Account{PrivateKey: ed25519.PrivateKey(b)}
	// bytes to address
	account.Address = common.BytesToAddress(account.PrivateKey.Public().(ed25519.PublicKey))
	// return account
	return account, nil
}

// AccountFromBase58Key generate an account by base58 private key
func AccountFromBase58Key(key string) (Account, error) {
	// empty string
	if len(key) == 0 {
		return Account{}, fmt.Errorf("empty base58 key")
	}
	b, err := base58.Decode(key)
	// if err
	if err != nil {
		return Account{}, fmt.Errorf("AccountFromBase58 Failed. Err: %w", err)
	}
	return AccountFromBytes(b)
}

// AccountFromSeed generate an account by a 32-byte seed
func AccountFromSeed(seed []byte) (Account, error) {
	if len(seed) != ed25519.SeedSize {
		return Account{}, fmt.Errorf("seed size mismatch, expected: %v, got: %v", ed25519.SeedSize, len(seed))
	}
	pk := ed25519.NewKeyFromSeed(seed)
	return AccountFromBytes(pk)
}

// AccountFromMnemonic generate an account by a BIP-39 mnemonic and password
func AccountFromMnemonic(mnemonic, password string) (Account, error) {
	// Check mnemonic
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	// New Seed Failed
	if err != nil {
		return Account{}, fmt.Errorf("NewSeedWithErrorChecking Failed. Err: %w", err)
	}
	// return AccountFromSeed
	return AccountFromSeed(seed[:ed25519.SeedSize])
}

// Base58PrvKey return base58 private key
func (a Account) Base58PrvKey() (string, error) {
	// empty account
	if len(a.PrivateKey) == 0 {
		return "", fmt.Errorf("empty account")
	}
	return base58.Encode(a.PrivateKey), nil
}

// Sign the message with account
func (a Account) Sign(message []byte) []byte {
	return ed25519.Sign(a.PrivateKey, message)
}

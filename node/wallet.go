// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package node

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/crypto"
)

// Wallet holds the private keys the node controls. Genesis wallets are
// addressed by a small integer id; client requests never see a private
// key.
type Wallet struct {
	byID   map[uint8]crypto.Account
	byAddr map[common.Address]crypto.Account
}

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{
		byID:   make(map[uint8]crypto.Account),
		byAddr: make(map[common.Address]crypto.Account),
	}
}

// Add registers an account under id.
func (w *Wallet) Add(id uint8, account crypto.Account) {
	w.byID[id] = account
	w.byAddr[account.Address] = account
}

// ByID returns the account registered under id.
func (w *Wallet) ByID(id uint8) (crypto.Account, bool) {
	account, ok := w.byID[id]
	return account, ok
}

// Lookup resolves a signer key for transaction signing. Returns nil for
// addresses the wallet does not control.
func (w *Wallet) Lookup(addr common.Address) *crypto.Account {
	account, ok := w.byAddr[addr]
	if !ok {
		return nil
	}
	return &account
}

// Len returns the number of held accounts.
func (w *Wallet) Len() int {
	return len(w.byID)
}

// GenesisWallet derives n deterministic wallets, ids 1..n, each from the
// 32-byte seed [id, id, ..., id]. If mnemonic is non-empty, one more
// wallet derived from it is added under id n+1.
func GenesisWallet(n int, mnemonic string) (*Wallet, error) {
	w := NewWallet()
	for id := 1; id <= n; id++ {
		seed := bytes.Repeat([]byte{byte(id)}, ed25519.SeedSize)
		account, err := crypto.AccountFromSeed(seed)
		if err != nil {
			return nil, fmt.Errorf("deriving genesis wallet %d: %w", id, err)
		}
		w.Add(uint8(id), account)
	}
	if mnemonic != "" {
		account, err := crypto.AccountFromMnemonic(mnemonic, "")
		if err != nil {
			return nil, fmt.Errorf("deriving funding wallet: %w", err)
		}
		w.Add(uint8(n+1), account)
	}
	return w, nil
}

// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// Package runtime holds the execution core of the node: the account
// store, the validating Bank, the virtual machine and the Proof of
// History chain. Everything here is pure and lock-free; callers own the
// locking discipline.
package runtime

import (
	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/types"
)

// AccountsDB is the state store: a map from address to shared account.
// Every account, wallet and program lives in this one map. There is no
// iteration order, no persistence and no versioning;
// writes are immediately visible to subsequent reads.
//
// AccountsDB is not safe for concurrent use; the node guards it with a
// mutex for the whole load-and-commit span of an execution.
type AccountsDB struct {
	accounts map[common.Address]types.AccountSharedData
}

// NewAccountsDB creates an empty AccountsDB.
func NewAccountsDB() *AccountsDB {
	return &AccountsDB{
		accounts: make(map[common.Address]types.AccountSharedData),
	}
}

// Load returns the account at pubkey. The second result is false if the
// account does not exist; a missing account and a zeroed-out account are
// treated the same way by the runtime.
func (db *AccountsDB) Load(pubkey common.Address) (types.AccountSharedData, bool) {
	acc, ok := db.accounts[pubkey]
	if !ok {
		return types.AccountSharedData{}, false
	}
	return acc.Clone(), true
}

// Store writes an account at pubkey, replacing any existing state. This
// is the only way state changes enter the DB.
func (db *AccountsDB) Store(pubkey common.Address, account types.AccountSharedData) {
	db.accounts[pubkey] = account.Clone()
}

// Delete removes an account. Idempotent.
func (db *AccountsDB) Delete(pubkey common.Address) {
	delete(db.accounts, pubkey)
}

// Contains reports whether an account exists at pubkey.
func (db *AccountsDB) Contains(pubkey common.Address) bool {
	_, ok := db.accounts[pubkey]
	return ok
}

// Len returns the number of accounts currently stored.
func (db *AccountsDB) Len() int {
	return len(db.accounts)
}

// IsEmpty reports whether the store holds no accounts.
func (db *AccountsDB) IsEmpty() bool {
	return len(db.accounts) == 0
}

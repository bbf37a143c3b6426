// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package system

import (
	"math"

	"github.com/cielu/go-solnode/types"
)

// Process executes a decoded instruction against the accounts the
// dispatcher loaded for it. accounts is ordered the way the compiled
// instruction listed them; mutations are written back by the caller
// only when Process returns nil.
func Process(inst Instruction, accounts []*types.AccountSharedData) error {
	switch inst.Discriminator {
	case InstructionCreateAccount:
		return processCreateAccount(inst, accounts)
	case InstructionTransfer:
		return processTransfer(inst, accounts)
	case InstructionAssign:
		return processAssign(inst, accounts)
	default:
		return &UnknownInstructionError{Discriminator: inst.Discriminator}
	}
}

// processCreateAccount debits the funder and initializes the new account
// with the requested balance, owner and data space.
func processCreateAccount(inst Instruction, accounts []*types.AccountSharedData) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccounts
	}
	funder, newAccount := accounts[0], accounts[1]

	// The new account must not already be in use: no lamports, no data.
	if newAccount.Lamports() > 0 || len(newAccount.Data()) > 0 {
		return ErrAccountAlreadyInUse
	}
	// Only the owner can debit; the funder must be a plain system account.
	if !funder.Owner().IsZero() {
		return ErrAccountNotOwnedBySystem
	}
	if funder.Lamports() < inst.Lamports {
		return ErrInsufficientFunds
	}

	funder.SetLamports(funder.Lamports() - inst.Lamports)

	newAccount.SetLamports(inst.Lamports)
	newAccount.SetOwner(inst.Owner)
	newAccount.ResizeData(int(inst.Space))
	return nil
}

// processTransfer moves lamports from a system-owned account to any
// other account.
func processTransfer(inst Instruction, accounts []*types.AccountSharedData) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccounts
	}
	from, to := accounts[0], accounts[1]

	if !from.Owner().IsZero() {
		return ErrAccountNotOwnedBySystem
	}
	if from.Lamports() < inst.Lamports {
		return ErrInsufficientFunds
	}
	if to.Lamports() > math.MaxUint64-inst.Lamports {
		return ErrBalanceOverflow
	}

	from.SetLamports(from.Lamports() - inst.Lamports)
	to.SetLamports(to.Lamports() + inst.Lamports)
	return nil
}

// processAssign overwrites the owner of a system-owned account.
func processAssign(inst Instruction, accounts []*types.AccountSharedData) error {
	if len(accounts) < 1 {
		return ErrNotEnoughAccounts
	}
	account := accounts[0]

	if !account.Owner().IsZero() {
		return ErrAccountNotOwnedBySystem
	}

	account.SetOwner(inst.Owner)
	return nil
}

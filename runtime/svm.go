// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package runtime

import (
	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/core/system"
	"github.com/cielu/go-solnode/types"
)

// ProgramFunc executes one instruction of a native program against the
// accounts the dispatcher loaded for it, in compiled-instruction order.
type ProgramFunc func(data []byte, accounts []*types.AccountSharedData) error

// SVM is the pure execution engine. It loads the accounts a validated
// transaction names into a local working set, dispatches each
// instruction to the registered program, and commits the working set
// back to the store only when every instruction succeeded. It knows
// nothing about signatures, fees or blockhashes; that is the Bank's
// job, one layer up.
type SVM struct {
	programs map[common.Address]ProgramFunc
}

// NewSVM returns an SVM with the system program registered at the zero
// address.
func NewSVM() *SVM {
	vm := &SVM{programs: make(map[common.Address]ProgramFunc)}
	vm.Register(system.ProgramID, func(data []byte, accounts []*types.AccountSharedData) error {
		inst, err := system.Decode(data)
		if err != nil {
			return err
		}
		return system.Process(inst, accounts)
	})
	return vm
}

// Register installs a native program handler. Future native programs and
// a BPF interpreter plug in here.
func (vm *SVM) Register(program common.Address, fn ProgramFunc) {
	vm.programs[program] = fn
}

// Execute runs tx against db.
//
// Either every mutation in the transaction is visible afterwards, or
// none is: all writes are deferred to the commit loop at the end, so a
// failing instruction leaves db untouched.
func (vm *SVM) Execute(tx *types.Transaction, db *AccountsDB) error {
	message := &tx.Message

	// Load every account key into a local working set. Missing accounts
	// materialize as the implicit default. db is not referenced again
	// until commit.
	workingSet := make([]types.AccountSharedData, len(message.AccountKeys))
	for i, pubkey := range message.AccountKeys {
		if acc, ok := db.Load(pubkey); ok {
			workingSet[i] = acc
		}
	}

	for ixIndex, instruction := range message.Instructions {
		// Resolve the program id.
		if int(instruction.ProgramIDIndex) >= len(message.AccountKeys) {
			return &InvalidAccountIndexError{Instruction: ixIndex, Index: instruction.ProgramIDIndex}
		}
		programID := message.AccountKeys[instruction.ProgramIDIndex]

		// Clone the accounts this instruction names out of the working
		// set, in instruction order.
		ixAccounts := make([]types.AccountSharedData, len(instruction.Accounts))
		ixRefs := make([]*types.AccountSharedData, len(instruction.Accounts))
		for pos, accountIndex := range instruction.Accounts {
			if int(accountIndex) >= len(workingSet) {
				return &InvalidAccountIndexError{Instruction: ixIndex, Index: accountIndex}
			}
			ixAccounts[pos] = workingSet[accountIndex].Clone()
			ixRefs[pos] = &ixAccounts[pos]
		}

		handler, ok := vm.programs[programID]
		if !ok {
			return &UnknownProgramError{Instruction: ixIndex, Program: programID}
		}
		if err := handler(instruction.Data, ixRefs); err != nil {
			return &ProgramError{Instruction: ixIndex, Program: programID, Err: err}
		}

		// Write the possibly mutated accounts back into the working set
		// at their original positions. Last write wins when an
		// instruction lists the same index twice.
		for pos, accountIndex := range instruction.Accounts {
			workingSet[accountIndex] = ixAccounts[pos]
		}
	}

	// Commit. All instructions succeeded; persist the working set.
	for i, pubkey := range message.AccountKeys {
		db.Store(pubkey, workingSet[i])
	}
	return nil
}

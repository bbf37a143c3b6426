// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// Package system implements the built-in program at the zero address:
// the sole manager of plain (system-owned) accounts. Decoding and
// processing are pure functions of the instruction bytes and the
// account slice; they perform no I/O.
package system

import (
	"errors"
	"fmt"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/pkg/encodbin"
)

// ProgramID is the address of the system program: all 32 bytes zero,
// "11111111111111111111111111111111" in base58.
var ProgramID = common.SystemProgramID

// Instruction discriminators: the first 4 bytes of instruction data,
// little-endian uint32.
const (
	// InstructionCreateAccount creates a new account.
	//
	// [0] = [WRITE, SIGNER] FundingAccount
	// [1] = [WRITE, SIGNER] NewAccount
	//
	// Data layout (52 bytes): disc u32 LE | lamports u64 LE | space u64 LE | owner 32B
	InstructionCreateAccount uint32 = 0

	// InstructionTransfer moves lamports between system-owned accounts.
	//
	// [0] = [WRITE, SIGNER] FundingAccount
	// [1] = [WRITE] RecipientAccount
	//
	// Data layout (12 bytes): disc u32 LE | lamports u64 LE
	InstructionTransfer uint32 = 2

	// InstructionAssign changes the owner of a system-owned account.
	//
	// [0] = [WRITE, SIGNER] AssignedAccount
	//
	// Data layout (36 bytes): disc u32 LE | owner 32B
	InstructionAssign uint32 = 8
)

// Errors an instruction can fail with.
var (
	// ErrInvalidInstructionData instruction data is too short or malformed.
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	// ErrInsufficientFunds the funding account does not have enough lamports.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBalanceOverflow a credit would push the balance past the uint64 range.
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrAccountAlreadyInUse tried to create an account that already has
	// lamports or data.
	ErrAccountAlreadyInUse = errors.New("account already in use")
	// ErrAccountNotOwnedBySystem the account being debited or assigned is
	// not owned by the system program.
	ErrAccountNotOwnedBySystem = errors.New("account not owned by system program")
	// ErrNotEnoughAccounts fewer accounts than this instruction needs.
	ErrNotEnoughAccounts = errors.New("not enough accounts")
)

// UnknownInstructionError reports a discriminator that matches no known
// instruction.
type UnknownInstructionError struct {
	Discriminator uint32
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown system instruction: discriminator %d", e.Discriminator)
}

// Instruction is a decoded system-program instruction.
type Instruction struct {
	Discriminator uint32

	// CreateAccount / Transfer
	Lamports uint64
	// CreateAccount
	Space uint64
	// CreateAccount / Assign
	Owner common.Address
}

// Decode parses raw instruction bytes into an Instruction.
func Decode(data []byte) (Instruction, error) {
	var inst Instruction

	dec := encodbin.NewBinDecoder(data)
	disc, err := dec.ReadUint32()
	if err != nil {
		return inst, ErrInvalidInstructionData
	}
	inst.Discriminator = disc

	switch disc {
	case InstructionCreateAccount:
		if inst.Lamports, err = dec.ReadUint64(); err != nil {
			return inst, ErrInvalidInstructionData
		}
		if inst.Space, err = dec.ReadUint64(); err != nil {
			return inst, ErrInvalidInstructionData
		}
		owner, err := dec.ReadNBytes(common.AddressLength)
		if err != nil {
			return inst, ErrInvalidInstructionData
		}
		inst.Owner = common.BytesToAddress(owner)
		return inst, nil

	case InstructionTransfer:
		if inst.Lamports, err = dec.ReadUint64(); err != nil {
			return inst, ErrInvalidInstructionData
		}
		return inst, nil

	case InstructionAssign:
		owner, err := dec.ReadNBytes(common.AddressLength)
		if err != nil {
			return inst, ErrInvalidInstructionData
		}
		inst.Owner = common.BytesToAddress(owner)
		return inst, nil

	default:
		return inst, &UnknownInstructionError{Discriminator: disc}
	}
}

// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package system

import (
	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/pkg/encodbin"
	"github.com/cielu/go-solnode/types"
)

// NewCreateAccountInstruction declares a CreateAccount instruction with
// the provided parameters and accounts.
func NewCreateAccountInstruction(
	// Parameters:
	lamports uint64,
	space uint64,
	owner common.Address,
	// Accounts:
	fundingAccount common.Address,
	newAccount common.Address) types.Instruction {

	enc := encodbin.NewBinEncoder()
	enc.WriteUint32(InstructionCreateAccount)
	enc.WriteUint64(lamports)
	enc.WriteUint64(space)
	enc.WriteBytes(owner[:])

	return types.Instruction{
		ProgID: ProgramID,
		AccountMeta: []*types.AccountMeta{
			types.Meta(fundingAccount).WRITE().SIGNER(),
			types.Meta(newAccount).WRITE().SIGNER(),
		},
		InstData: enc.Bytes(),
	}
}

// NewTransferInstruction declares a Transfer instruction with the
// provided parameters and accounts.
func NewTransferInstruction(
	// Accounts:
	fundingAccount common.Address,
	recipientAccount common.Address,
	// Parameters:
	lamports uint64) types.Instruction {

	enc := encodbin.NewBinEncoder()
	enc.WriteUint32(InstructionTransfer)
	enc.WriteUint64(lamports)

	return types.Instruction{
		ProgID: ProgramID,
		AccountMeta: []*types.AccountMeta{
			types.Meta(fundingAccount).WRITE().SIGNER(),
			types.Meta(recipientAccount).WRITE(),
		},
		InstData: enc.Bytes(),
	}
}

// NewAssignInstruction declares an Assign instruction with the provided
// parameters and accounts.
func NewAssignInstruction(
	// Accounts:
	assignedAccount common.Address,
	// Parameters:
	owner common.Address) types.Instruction {

	enc := encodbin.NewBinEncoder()
	enc.WriteUint32(InstructionAssign)
	enc.WriteBytes(owner[:])

	return types.Instruction{
		ProgID: ProgramID,
		AccountMeta: []*types.AccountMeta{
			types.Meta(assignedAccount).WRITE().SIGNER(),
		},
		InstData: enc.Bytes(),
	}
}

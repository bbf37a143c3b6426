// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cielu/go-solnode/common"
)

func TestTransferBuilderRoundTrip(t *testing.T) {
	from, to := common.ByteToAddress(1), common.ByteToAddress(2)
	ix := NewTransferInstruction(from, to, 777)

	assert.Equal(t, ProgramID, ix.ProgramID())
	require.Len(t, ix.Accounts(), 2)
	assert.True(t, ix.Accounts()[0].IsSigner)
	assert.True(t, ix.Accounts()[0].IsWritable)
	assert.False(t, ix.Accounts()[1].IsSigner)

	inst, err := Decode(ix.Data())
	require.NoError(t, err)
	assert.Equal(t, InstructionTransfer, inst.Discriminator)
	assert.Equal(t, uint64(777), inst.Lamports)
}

func TestCreateAccountBuilderRoundTrip(t *testing.T) {
	owner := common.ByteToAddress(9)
	ix := NewCreateAccountInstruction(100, 32, owner, common.ByteToAddress(1), common.ByteToAddress(3))

	require.Len(t, ix.Accounts(), 2)
	assert.True(t, ix.Accounts()[1].IsSigner, "the new account signs its own creation")

	inst, err := Decode(ix.Data())
	require.NoError(t, err)
	assert.Equal(t, InstructionCreateAccount, inst.Discriminator)
	assert.Equal(t, uint64(100), inst.Lamports)
	assert.Equal(t, uint64(32), inst.Space)
	assert.Equal(t, owner, inst.Owner)
}

func TestAssignBuilderRoundTrip(t *testing.T) {
	owner := common.ByteToAddress(4)
	ix := NewAssignInstruction(common.ByteToAddress(1), owner)

	require.Len(t, ix.Accounts(), 1)
	inst, err := Decode(ix.Data())
	require.NoError(t, err)
	assert.Equal(t, InstructionAssign, inst.Discriminator)
	assert.Equal(t, owner, inst.Owner)
}

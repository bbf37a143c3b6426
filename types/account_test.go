package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cielu/go-solnode/common"
)

func TestImplicitDefaultAccount(t *testing.T) {
	var acc AccountSharedData
	assert.Zero(t, acc.Lamports())
	assert.Empty(t, acc.Data())
	assert.True(t, acc.Owner().IsZero())
	assert.False(t, acc.Executable())
}

func TestCloneSharesDataUntilMutation(t *testing.T) {
	acc := NewAccountSharedData(10, 4, common.SystemProgramID)
	buf := acc.DataMut()
	copy(*buf, []byte{1, 2, 3, 4})

	clone := acc.Clone()
	require.Equal(t, []byte{1, 2, 3, 4}, clone.Data())

	// Mutating the clone must not be visible through the original.
	cloneBuf := clone.DataMut()
	(*cloneBuf)[0] = 0xff
	assert.Equal(t, []byte{1, 2, 3, 4}, acc.Data())
	assert.Equal(t, []byte{0xff, 2, 3, 4}, clone.Data())
}

func TestDataMutInPlaceWhenUnshared(t *testing.T) {
	acc := NewAccountSharedData(0, 2, common.SystemProgramID)
	first := acc.DataMut()
	(*first)[0] = 7
	// Sole holder: a second DataMut sees the same buffer.
	second := acc.DataMut()
	assert.Equal(t, byte(7), (*second)[0])
}

func TestResizeData(t *testing.T) {
	acc := NewAccountSharedData(0, 0, common.SystemProgramID)
	acc.ResizeData(3)
	assert.Equal(t, []byte{0, 0, 0}, acc.Data())

	buf := acc.DataMut()
	copy(*buf, []byte{9, 9, 9})
	acc.ResizeData(5)
	assert.Equal(t, []byte{9, 9, 9, 0, 0}, acc.Data())

	acc.ResizeData(1)
	assert.Equal(t, []byte{9}, acc.Data())
}

func TestResizeDoesNotLeakIntoClones(t *testing.T) {
	acc := NewAccountSharedData(0, 2, common.SystemProgramID)
	clone := acc.Clone()
	acc.ResizeData(6)
	assert.Len(t, acc.Data(), 6)
	assert.Len(t, clone.Data(), 2)
}

func TestOwnedSharedRoundTrip(t *testing.T) {
	owner := common.ByteToAddress(9)
	owned := Account{
		Lamports:   42,
		Data:       []byte{1, 2},
		Owner:      owner,
		Executable: true,
		RentEpoch:  3,
	}
	shared := owned.ToShared()
	back := shared.ToAccount()
	assert.Equal(t, owned, back)
}

func TestAccountEqual(t *testing.T) {
	a := NewAccountSharedData(5, 1, common.ByteToAddress(1))
	b := a.Clone()
	assert.True(t, a.Equal(&b))

	buf := b.DataMut()
	(*buf)[0] = 1
	assert.False(t, a.Equal(&b))

	c := NewAccountSharedData(6, 1, common.ByteToAddress(1))
	assert.False(t, a.Equal(&c))
}

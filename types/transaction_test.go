package types

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/crypto"
)

func transferData(lamports uint64) []byte {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data, 2)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	return data
}

func testMessage() Message {
	return Message{
		Header: MessageHeader{
			NumRequiredSignatures:       1,
			NumReadonlySignedAccounts:   0,
			NumReadonlyUnsignedAccounts: 1,
		},
		AccountKeys: []common.Address{
			common.ByteToAddress(1),
			common.ByteToAddress(2),
			common.SystemProgramID,
		},
		RecentBlockhash: common.BytesToHash(bytes.Repeat([]byte{0xab}, 32)),
		Instructions: []CompiledInstruction{
			NewCompiledInstruction(2, []uint8{0, 1}, transferData(1_000_000_000)),
		},
	}
}

// The canonical encoding is normative: identical messages must produce
// identical bytes or signatures will not verify cross-implementation.
func TestSerializeCanonicalBytes(t *testing.T) {
	msg := testMessage()

	var want []byte
	want = append(want, 1, 0, 1) // header
	want = append(want, 3)       // num account keys
	for _, key := range msg.AccountKeys {
		want = append(want, key[:]...)
	}
	want = append(want, msg.RecentBlockhash[:]...)
	want = append(want, 1)       // num instructions
	want = append(want, 2)       // program id index
	want = append(want, 2, 0, 1) // num accounts, accounts
	want = append(want, 12, 0)   // data len u16 LE
	want = append(want, msg.Instructions[0].Data...)

	got, err := msg.Serialize()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMessageDecodeRoundTrip(t *testing.T) {
	msg := testMessage()
	raw, err := msg.Serialize()
	require.NoError(t, err)

	decoded, err := DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)

	// Re-encoding a decoded message yields identical bytes.
	again, err := decoded.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestDecodeMessageTruncated(t *testing.T) {
	msg := testMessage()
	raw, err := msg.Serialize()
	require.NoError(t, err)
	_, err = DecodeMessage(raw[:len(raw)-3])
	assert.Error(t, err)

	_, err = DecodeMessage(append(raw, 0))
	assert.Error(t, err, "trailing bytes must be rejected")
}

// Role classification must agree with the four-group partitioning for
// every index.
func TestRoleClassification(t *testing.T) {
	cases := []struct {
		name       string
		n, s, rs, ru int
	}{
		{"transfer shape", 3, 1, 0, 1},
		{"two signers one readonly", 4, 2, 1, 1},
		{"all signers", 3, 3, 1, 0},
		{"no readonly", 4, 2, 0, 0},
		{"everything readonly", 5, 2, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := Message{
				Header: MessageHeader{
					NumRequiredSignatures:       uint8(tc.s),
					NumReadonlySignedAccounts:   uint8(tc.rs),
					NumReadonlyUnsignedAccounts: uint8(tc.ru),
				},
				AccountKeys: make([]common.Address, tc.n),
			}
			for i := 0; i < tc.n; i++ {
				wantSigner := i < tc.s
				var wantWritable bool
				switch {
				case i < tc.s-tc.rs:
					wantWritable = true // writable signer
				case i < tc.s:
					wantWritable = false // readonly signer
				case i < tc.n-tc.ru:
					wantWritable = true // writable non-signer
				default:
					wantWritable = false // readonly non-signer
				}
				assert.Equal(t, wantSigner, msg.IsSigner(i), "IsSigner(%d)", i)
				assert.Equal(t, wantWritable, msg.IsWritable(i), "IsWritable(%d)", i)
			}
		})
	}
}

func TestNewTransactionCompilesTransfer(t *testing.T) {
	from := common.ByteToAddress(1)
	to := common.ByteToAddress(2)
	inst := Instruction{
		ProgID: common.SystemProgramID,
		AccountMeta: []*AccountMeta{
			Meta(from).WRITE().SIGNER(),
			Meta(to).WRITE(),
		},
		InstData: transferData(5),
	}
	blockhash := common.BytesToHash([]byte{9})

	tx, err := NewTransaction([]Instruction{inst}, blockhash, from)
	require.NoError(t, err)

	msg := tx.Message
	require.Equal(t, []common.Address{from, to, common.SystemProgramID}, msg.AccountKeys)
	assert.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
	assert.Equal(t, uint8(0), msg.Header.NumReadonlySignedAccounts)
	assert.Equal(t, uint8(1), msg.Header.NumReadonlyUnsignedAccounts)
	assert.Equal(t, blockhash, msg.RecentBlockhash)

	require.Len(t, msg.Instructions, 1)
	compiled := msg.Instructions[0]
	assert.Equal(t, uint8(2), compiled.ProgramIDIndex)
	assert.Equal(t, []uint8{0, 1}, compiled.Accounts)
	assert.Equal(t, inst.InstData, compiled.Data)

	// Fee payer is AccountKeys[0] and a writable signer.
	payer, ok := tx.FeePayer()
	require.True(t, ok)
	assert.Equal(t, from, payer)
	assert.True(t, msg.IsSigner(0))
	assert.True(t, msg.IsWritable(0))
}

func TestNewTransactionDeduplicatesKeys(t *testing.T) {
	from := common.ByteToAddress(1)
	to := common.ByteToAddress(2)
	mk := func() Instruction {
		return Instruction{
			ProgID: common.SystemProgramID,
			AccountMeta: []*AccountMeta{
				Meta(from).WRITE().SIGNER(),
				Meta(to).WRITE(),
			},
			InstData: transferData(1),
		}
	}

	tx, err := NewTransaction([]Instruction{mk(), mk()}, common.Hash{}, from)
	require.NoError(t, err)
	assert.Len(t, tx.Message.AccountKeys, 3)
	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, tx.Message.Instructions[0], tx.Message.Instructions[1])
}

func TestNewTransactionRequiresInstructions(t *testing.T) {
	_, err := NewTransaction(nil, common.Hash{}, common.ByteToAddress(1))
	assert.Error(t, err)
}

func TestSignFillsAllRequiredSlots(t *testing.T) {
	account, err := crypto.GenerateAccount()
	require.NoError(t, err)

	inst := Instruction{
		ProgID: common.SystemProgramID,
		AccountMeta: []*AccountMeta{
			Meta(account.Address).WRITE().SIGNER(),
			Meta(common.ByteToAddress(2)).WRITE(),
		},
		InstData: transferData(1),
	}
	tx, err := NewTransaction([]Instruction{inst}, common.Hash{}, account.Address)
	require.NoError(t, err)
	assert.False(t, tx.IsSigned())

	sigs, err := tx.Sign(func(key common.Address) *crypto.Account {
		if key == account.Address {
			return &account
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.True(t, tx.IsSigned())

	raw, err := tx.Message.Serialize()
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(account.Address[:]), raw, sigs[0][:]))
}

func TestSignUnknownSigner(t *testing.T) {
	inst := Instruction{
		ProgID: common.SystemProgramID,
		AccountMeta: []*AccountMeta{
			Meta(common.ByteToAddress(1)).WRITE().SIGNER(),
			Meta(common.ByteToAddress(2)).WRITE(),
		},
		InstData: transferData(1),
	}
	tx, err := NewTransaction([]Instruction{inst}, common.Hash{}, common.ByteToAddress(1))
	require.NoError(t, err)

	_, err = tx.Sign(func(common.Address) *crypto.Account { return nil })
	assert.Error(t, err)
}

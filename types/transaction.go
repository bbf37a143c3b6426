package types

import (
	"fmt"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/crypto"
	"github.com/cielu/go-solnode/pkg/encodbin"
)

// MessageHeader describes the layout of Message.AccountKeys.
//
// AccountKeys is a flat list partitioned into four contiguous groups:
//
//	[writable signers | readonly signers | writable non-signers | readonly non-signers]
//	 <----- NumRequiredSignatures ----->
//	          <- NumReadonlySigned ---->                          <- NumReadonlyUnsigned ->
type MessageHeader struct {
	// NumRequiredSignatures is the number of accounts that must sign.
	// These are always the first N entries in AccountKeys.
	NumRequiredSignatures uint8 `json:"numRequiredSignatures"`
	// NumReadonlySignedAccounts is how many of the signers are read-only.
	// These are the last M of the signers.
	NumReadonlySignedAccounts uint8 `json:"numReadonlySignedAccounts"`
	// NumReadonlyUnsignedAccounts is the number of read-only non-signers.
	// These are the last K entries in AccountKeys.
	NumReadonlyUnsignedAccounts uint8 `json:"numReadonlyUnsignedAccounts"`
}

// CompiledInstruction is a single instruction inside a Message.
// Instructions reference accounts by index into Message.AccountKeys
// rather than embedding addresses, which deduplicates keys across
// instructions.
type CompiledInstruction struct {
	// ProgramIDIndex is the index into Message.AccountKeys identifying
	// the program to invoke.
	ProgramIDIndex uint8 `json:"programIdIndex"`
	// Accounts is the ordered list of indexes into Message.AccountKeys
	// passed to the program.
	Accounts []uint8 `json:"accounts"`
	// Data is the opaque payload passed to the program. The first 4
	// bytes are a little-endian discriminator.
	Data []byte `json:"data"`
}

// NewCompiledInstruction returns a CompiledInstruction with the given fields.
func NewCompiledInstruction(programIDIndex uint8, accounts []uint8, data []byte) CompiledInstruction {
	return CompiledInstruction{
		ProgramIDIndex: programIDIndex,
		Accounts:       accounts,
		Data:           data,
	}
}

// Message is the payload that signers authorize. The signatures in
// Transaction cover the canonical serialization of these fields and
// nothing else.
type Message struct {
	// Header describes the signer/writable layout of AccountKeys.
	Header MessageHeader `json:"header"`
	// AccountKeys is the flat, deduplicated list of every account the
	// transaction touches. Index 0 is the fee payer and must be a
	// writable signer.
	AccountKeys []common.Address `json:"accountKeys"`
	// RecentBlockhash anchors the transaction to a recent point on the
	// PoH chain. Expiry is not enforced yet.
	RecentBlockhash common.Hash `json:"recentBlockhash"`
	// Instructions are executed in order and committed atomically.
	Instructions []CompiledInstruction `json:"instructions"`
}

// IsSigner reports whether the account at index is a signer.
// Signers are the first NumRequiredSignatures entries of AccountKeys.
func (m *Message) IsSigner(index int) bool {
	return index < int(m.Header.NumRequiredSignatures)
}

// IsWritable reports whether the account at index is writable.
// An account is writable unless it falls in one of the two read-only
// tails described by the header.
func (m *Message) IsWritable(index int) bool {
	numSigners := int(m.Header.NumRequiredSignatures)
	if index < numSigners {
		return index < numSigners-int(m.Header.NumReadonlySignedAccounts)
	}
	return index < len(m.AccountKeys)-int(m.Header.NumReadonlyUnsignedAccounts)
}

// Program returns the account key at idIndex.
func (m *Message) Program(idIndex uint8) common.Address {
	return m.AccountKeys[idIndex]
}

// signerKeys returns the keys that must sign, in signature order.
func (m *Message) signerKeys() []common.Address {
	n := int(m.Header.NumRequiredSignatures)
	if n > len(m.AccountKeys) {
		n = len(m.AccountKeys)
	}
	return m.AccountKeys[:n]
}

// Serialize encodes the message into its canonical byte form. This is
// the exact byte stream covered by signatures, so it must be bit-stable:
//
//	numRequiredSignatures         1 byte
//	numReadonlySignedAccounts     1 byte
//	numReadonlyUnsignedAccounts   1 byte
//	numAccountKeys                1 byte
//	accountKeys                   32 bytes each
//	recentBlockhash               32 bytes
//	numInstructions               1 byte
//	per instruction:
//	  programIdIndex              1 byte
//	  numAccounts                 1 byte
//	  accounts                    numAccounts bytes
//	  dataLen                     2 bytes LE
//	  data                        dataLen bytes
func (m *Message) Serialize() ([]byte, error) {
	if len(m.AccountKeys) > 255 {
		return nil, fmt.Errorf("too many account keys: %d", len(m.AccountKeys))
	}
	if len(m.Instructions) > 255 {
		return nil, fmt.Errorf("too many instructions: %d", len(m.Instructions))
	}

	enc := encodbin.NewBinEncoder()
	enc.WriteUint8(m.Header.NumRequiredSignatures)
	enc.WriteUint8(m.Header.NumReadonlySignedAccounts)
	enc.WriteUint8(m.Header.NumReadonlyUnsignedAccounts)

	enc.WriteUint8(uint8(len(m.AccountKeys)))
	for _, key := range m.AccountKeys {
		enc.WriteBytes(key[:])
	}

	enc.WriteBytes(m.RecentBlockhash[:])

	enc.WriteUint8(uint8(len(m.Instructions)))
	for _, ix := range m.Instructions {
		if len(ix.Accounts) > 255 {
			return nil, fmt.Errorf("too many instruction accounts: %d", len(ix.Accounts))
		}
		if len(ix.Data) > 0xffff {
			return nil, fmt.Errorf("instruction data too long: %d", len(ix.Data))
		}
		enc.WriteUint8(ix.ProgramIDIndex)
		enc.WriteUint8(uint8(len(ix.Accounts)))
		enc.WriteBytes(ix.Accounts)
		enc.WriteUint16(uint16(len(ix.Data)))
		enc.WriteBytes(ix.Data)
	}

	return enc.Bytes(), nil
}

// DecodeMessage parses canonical message bytes. Re-encoding the result
// yields the input bytes unchanged.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	dec := encodbin.NewBinDecoder(data)

	var err error
	if msg.Header.NumRequiredSignatures, err = dec.ReadByte(); err != nil {
		return msg, fmt.Errorf("unable to read numRequiredSignatures: %w", err)
	}
	if msg.Header.NumReadonlySignedAccounts, err = dec.ReadByte(); err != nil {
		return msg, fmt.Errorf("unable to read numReadonlySignedAccounts: %w", err)
	}
	if msg.Header.NumReadonlyUnsignedAccounts, err = dec.ReadByte(); err != nil {
		return msg, fmt.Errorf("unable to read numReadonlyUnsignedAccounts: %w", err)
	}

	numKeys, err := dec.ReadByte()
	if err != nil {
		return msg, fmt.Errorf("unable to read numAccountKeys: %w", err)
	}
	msg.AccountKeys = make([]common.Address, numKeys)
	for i := range msg.AccountKeys {
		if _, err = dec.Read(msg.AccountKeys[i][:]); err != nil {
			return msg, fmt.Errorf("unable to read accountKeys[%d]: %w", i, err)
		}
	}

	if _, err = dec.Read(msg.RecentBlockhash[:]); err != nil {
		return msg, fmt.Errorf("unable to read recentBlockhash: %w", err)
	}

	numInstructions, err := dec.ReadByte()
	if err != nil {
		return msg, fmt.Errorf("unable to read numInstructions: %w", err)
	}
	msg.Instructions = make([]CompiledInstruction, numInstructions)
	for i := range msg.Instructions {
		ix := &msg.Instructions[i]
		if ix.ProgramIDIndex, err = dec.ReadByte(); err != nil {
			return msg, fmt.Errorf("unable to read instructions[%d].programIdIndex: %w", i, err)
		}
		numAccounts, err := dec.ReadByte()
		if err != nil {
			return msg, fmt.Errorf("unable to read instructions[%d].numAccounts: %w", i, err)
		}
		if ix.Accounts, err = dec.ReadNBytes(int(numAccounts)); err != nil {
			return msg, fmt.Errorf("unable to read instructions[%d].accounts: %w", i, err)
		}
		dataLen, err := dec.ReadUint16()
		if err != nil {
			return msg, fmt.Errorf("unable to read instructions[%d].dataLen: %w", i, err)
		}
		if ix.Data, err = dec.ReadNBytes(int(dataLen)); err != nil {
			return msg, fmt.Errorf("unable to read instructions[%d].data: %w", i, err)
		}
	}

	if dec.HasRemaining() {
		return msg, fmt.Errorf("trailing bytes after message: %d", dec.Remaining())
	}
	return msg, nil
}

// Transaction is the complete unit submitted to the node.
type Transaction struct {
	// Signatures holds one Ed25519 signature per required signer.
	// Signatures[i] covers the canonical message bytes and was produced
	// by the private key corresponding to Message.AccountKeys[i].
	Signatures []common.Signature `json:"signatures"`

	// Message defines the content of the transaction.
	Message Message `json:"message"`
}

// FeePayer returns AccountKeys[0], the writable signer that will
// eventually pay transaction fees.
func (tx *Transaction) FeePayer() (common.Address, bool) {
	if len(tx.Message.AccountKeys) == 0 {
		return common.Address{}, false
	}
	return tx.Message.AccountKeys[0], true
}

// NumRequiredSignatures returns the signature count the header declares.
func (tx *Transaction) NumRequiredSignatures() uint8 {
	return tx.Message.Header.NumRequiredSignatures
}

// IsSigned reports whether all required signature slots are filled.
// It does not verify the signatures cryptographically.
func (tx *Transaction) IsSigned() bool {
	return len(tx.Signatures) == int(tx.Message.Header.NumRequiredSignatures)
}

type privateKeyGetter func(key common.Address) *crypto.Account

// Sign serializes the message and appends one signature per required
// signer, resolved through getter.
func (tx *Transaction) Sign(getter privateKeyGetter) ([]common.Signature, error) {
	messageContent, err := tx.Message.Serialize()
	if err != nil {
		return nil, fmt.Errorf("unable to encode message for signing: %w", err)
	}

	for _, key := range tx.Message.signerKeys() {
		account := getter(key)
		if account == nil {
			return nil, fmt.Errorf("signer key %q not found. Ensure all the signer keys are in the vault", key.String())
		}
		s := account.Sign(messageContent)
		tx.Signatures = append(tx.Signatures, common.BytesToSignature(s))
	}
	return tx.Signatures, nil
}

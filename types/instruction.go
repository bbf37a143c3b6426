package types

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cielu/go-solnode/common"
)

// AccountMeta names an account an instruction touches, with its role.
type AccountMeta struct {
	PublicKey  common.Address
	IsSigner   bool
	IsWritable bool
}

// Meta starts a fluent AccountMeta for the given address.
func Meta(pubKey common.Address) *AccountMeta {
	return &AccountMeta{PublicKey: pubKey}
}

// WRITE marks the account writable.
func (meta *AccountMeta) WRITE() *AccountMeta {
	meta.IsWritable = true
	return meta
}

// SIGNER marks the account as a required signer.
func (meta *AccountMeta) SIGNER() *AccountMeta {
	meta.IsSigner = true
	return meta
}

// less ranks metas for key-list ordering. Signers come first, then
// writable accounts, matching the header's four-group partitioning.
func (meta *AccountMeta) less(other *AccountMeta) bool {
	if meta.IsSigner != other.IsSigner {
		return meta.IsSigner
	}
	if meta.IsWritable != other.IsWritable {
		return meta.IsWritable
	}
	return false
}

// Instruction is the uncompiled form built by program helpers: a program
// address, the accounts it touches, and its encoded payload. NewTransaction
// compiles a batch of these into a Message.
type Instruction struct {
	ProgID      common.Address
	AccountMeta []*AccountMeta
	InstData    []byte
}

// ProgramID returns the program address.
func (ix Instruction) ProgramID() common.Address {
	return ix.ProgID
}

// Accounts returns the account metas in program order.
func (ix Instruction) Accounts() []*AccountMeta {
	return ix.AccountMeta
}

// Data returns the encoded payload.
func (ix Instruction) Data() []byte {
	return ix.InstData
}

// NewTransaction compiles instructions into an unsigned transaction.
// Account keys are deduplicated and ordered into the four header groups;
// the fee payer is moved to index 0 and forced writable-signer.
func NewTransaction(instructions []Instruction, recentBlockhash common.Hash, payer common.Address) (*Transaction, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("requires at-least one instruction to create a transaction")
	}

	feePayer := payer
	if feePayer.IsZero() {
		found := false
		for _, meta := range instructions[0].Accounts() {
			if meta.IsSigner {
				feePayer = meta.PublicKey
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("cannot determine fee payer: pass one explicitly or make the first instruction's first signer pay")
		}
	}

	// Collect metas plus one readonly meta per invoked program.
	programIDs := mapset.NewThreadUnsafeSet[common.Address]()
	accounts := []*AccountMeta{}
	for _, instruction := range instructions {
		accounts = append(accounts, instruction.Accounts()...)
		programIDs.Add(instruction.ProgramID())
	}
	sortedPrograms := programIDs.ToSlice()
	sort.Slice(sortedPrograms, func(i, j int) bool {
		return sortedPrograms[i].Cmp(sortedPrograms[j]) < 0
	})
	for _, programID := range sortedPrograms {
		accounts = append(accounts, &AccountMeta{PublicKey: programID})
	}

	// Sort. Prioritizing first by signer, then by writable.
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].less(accounts[j])
	})

	// Dedupe, merging roles.
	var (
		uniqAccounts    []*AccountMeta
		uniqAccountsMap = map[common.Address]int{}
	)
	for _, acc := range accounts {
		if index, found := uniqAccountsMap[acc.PublicKey]; found {
			uniqAccounts[index].IsWritable = uniqAccounts[index].IsWritable || acc.IsWritable
			uniqAccounts[index].IsSigner = uniqAccounts[index].IsSigner || acc.IsSigner
			continue
		}
		uniqAccounts = append(uniqAccounts, acc)
		uniqAccountsMap[acc.PublicKey] = len(uniqAccounts) - 1
	}

	// Move fee payer to the front.
	feePayerIndex := -1
	for idx, acc := range uniqAccounts {
		if acc.PublicKey == feePayer {
			feePayerIndex = idx
		}
	}
	accountCount := len(uniqAccounts)
	if feePayerIndex < 0 {
		accountCount++
	}
	finalAccounts := make([]*AccountMeta, accountCount)

	itr := 1
	for idx, uniqAccount := range uniqAccounts {
		if idx == feePayerIndex {
			uniqAccount.IsSigner = true
			uniqAccount.IsWritable = true
			finalAccounts[0] = uniqAccount
			continue
		}
		finalAccounts[itr] = uniqAccount
		itr++
	}
	if feePayerIndex < 0 {
		finalAccounts[0] = &AccountMeta{
			PublicKey:  feePayer,
			IsSigner:   true,
			IsWritable: true,
		}
	}

	// Re-sort the tail so merged roles land in their header group.
	sort.SliceStable(finalAccounts[1:], func(i, j int) bool {
		return finalAccounts[1+i].less(finalAccounts[1+j])
	})

	if len(finalAccounts) > 255 {
		return nil, fmt.Errorf("too many account keys: %d", len(finalAccounts))
	}

	message := Message{
		RecentBlockhash: recentBlockhash,
	}
	accountKeyIndex := map[common.Address]uint8{}
	for idx, acc := range finalAccounts {
		message.AccountKeys = append(message.AccountKeys, acc.PublicKey)
		accountKeyIndex[acc.PublicKey] = uint8(idx)
		if acc.IsSigner {
			message.Header.NumRequiredSignatures++
			if !acc.IsWritable {
				message.Header.NumReadonlySignedAccounts++
			}
			continue
		}
		if !acc.IsWritable {
			message.Header.NumReadonlyUnsignedAccounts++
		}
	}

	for ixIdx, instruction := range instructions {
		metas := instruction.Accounts()
		accountIndex := make([]uint8, len(metas))
		for idx, acc := range metas {
			accountIndex[idx] = accountKeyIndex[acc.PublicKey]
		}
		data := instruction.Data()
		if len(data) > 0xffff {
			return nil, fmt.Errorf("unable to encode instructions [%d]: data too long", ixIdx)
		}
		message.Instructions = append(message.Instructions, CompiledInstruction{
			ProgramIDIndex: accountKeyIndex[instruction.ProgramID()],
			Accounts:       accountIndex,
			Data:           data,
		})
	}

	return &Transaction{Message: message}, nil
}

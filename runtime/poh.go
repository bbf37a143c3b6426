// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package runtime

import (
	"crypto/sha256"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/types"
)

// Entry is one record in the PoH ledger: either a tick (no transactions)
// or a record (one or more transactions mixed into the chain).
type Entry struct {
	// NumHashes is the count of SHA-256 iterations since the previous
	// entry, not since genesis.
	NumHashes uint64 `json:"numHashes"`
	// Hash is the chain value at this entry.
	Hash common.Hash `json:"hash"`
	// Transactions stamped into this entry. Empty for ticks.
	Transactions []types.Transaction `json:"transactions"`
}

// IsTick reports whether the entry records only the passage of time.
func (e *Entry) IsTick() bool {
	return len(e.Transactions) == 0
}

// PohGenerator is the running hash chain: a serial SHA-256 stream whose
// entries prove that real time passed between them. Not safe for
// concurrent use; the node guards it with a mutex.
type PohGenerator struct {
	// currentHash is the latest value in the chain.
	currentHash common.Hash
	// numHashes counts hashes since the last recorded entry.
	numHashes uint64
	// Entries is the append-only ledger produced so far.
	Entries []Entry
	// HashesPerTick is how many sequential hashes constitute one tick.
	HashesPerTick uint64
}

// NewPohGenerator creates a chain starting from SHA-256(seed).
func NewPohGenerator(seed []byte, hashesPerTick uint64) *PohGenerator {
	return &PohGenerator{
		currentHash:   sha256Hash(seed),
		HashesPerTick: hashesPerTick,
	}
}

// Tick advances the chain by one full tick and appends a tick entry.
// This is how the chain proves time passed even when no transactions
// arrived.
func (poh *PohGenerator) Tick() Entry {
	for i := uint64(0); i < poh.HashesPerTick; i++ {
		poh.currentHash = sha256Hash(poh.currentHash[:])
		poh.numHashes++
	}

	entry := Entry{
		NumHashes: poh.numHashes,
		Hash:      poh.currentHash,
	}
	poh.Entries = append(poh.Entries, entry)

	// numHashes in each entry is relative to the previous entry.
	poh.numHashes = 0
	return entry
}

// Record mixes a batch of transactions into the chain and appends a
// record entry:
//
//	txHash  = SHA-256( sig_0 || sig_1 || ... )
//	newHash = SHA-256( currentHash || txHash )
//
// A record entry always has NumHashes >= 1, exactly 1 when no ticks
// have elapsed since the last entry.
func (poh *PohGenerator) Record(transactions []types.Transaction) Entry {
	txHash := hashTransactions(transactions)

	input := make([]byte, 0, 2*common.HashLength)
	input = append(input, poh.currentHash[:]...)
	input = append(input, txHash[:]...)
	poh.currentHash = sha256Hash(input)
	poh.numHashes++

	entry := Entry{
		NumHashes:    poh.numHashes,
		Hash:         poh.currentHash,
		Transactions: transactions,
	}
	poh.Entries = append(poh.Entries, entry)

	poh.numHashes = 0
	return entry
}

// LastHash returns the latest hash in the chain: the recent blockhash
// for newly built transactions.
func (poh *PohGenerator) LastHash() common.Hash {
	return poh.currentHash
}

// hashTransactions computes the hash mixed into the chain for a batch.
// Signature bytes are concatenated in transaction order, then signature
// index order.
//
// A transaction with no signatures falls back to hashing its account
// keys instead. That path exists only for validator-less bootstrap runs;
// it weakens the chain's commitment semantics and goes away once all
// transactions are required to be signed.
func hashTransactions(transactions []types.Transaction) common.Hash {
	h := sha256.New()
	for i := range transactions {
		tx := &transactions[i]
		if len(tx.Signatures) > 0 {
			for _, sig := range tx.Signatures {
				h.Write(sig[:])
			}
		} else {
			// Unsigned bootstrap fallback.
			for _, key := range tx.Message.AccountKeys {
				h.Write(key[:])
			}
		}
	}
	return common.BytesToHash(h.Sum(nil))
}

// VerifyEntries replays the chain from seed and confirms every entry.
// It returns false at the first mismatch. Generation and verification
// are bitwise-identical by construction.
func VerifyEntries(seed []byte, entries []Entry) bool {
	currentHash := sha256Hash(seed)

	for i := range entries {
		entry := &entries[i]
		if entry.IsTick() {
			// Tick entry: plain sequential hashes.
			for n := uint64(0); n < entry.NumHashes; n++ {
				currentHash = sha256Hash(currentHash[:])
			}
		} else {
			// Record entry: numHashes-1 plain hashes, then the mix.
			for n := uint64(1); n < entry.NumHashes; n++ {
				currentHash = sha256Hash(currentHash[:])
			}
			txHash := hashTransactions(entry.Transactions)
			input := make([]byte, 0, 2*common.HashLength)
			input = append(input, currentHash[:]...)
			input = append(input, txHash[:]...)
			currentHash = sha256Hash(input)
		}

		if currentHash != entry.Hash {
			return false
		}
	}
	return true
}

func sha256Hash(data []byte) common.Hash {
	return common.Hash(sha256.Sum256(data))
}

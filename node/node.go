// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// Package node wires the runtime core into a running process: genesis
// funding, the background PoH ticker, the submission pipeline and the
// entry feed. It owns the two shared resources, the account store and
// the PoH chain, each behind its own mutex.
//
// Lock order for a submission: PoH (read last hash) → store (execute) →
// PoH (record). Neither lock is ever held across blocking I/O and no
// submission holds both at once.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/core/system"
	"github.com/cielu/go-solnode/runtime"
	"github.com/cielu/go-solnode/types"
)

// ErrUnknownWallet reports a transfer naming a wallet id the node does
// not hold.
var ErrUnknownWallet = errors.New("unknown wallet id")

// Node is the single-process runtime: account store, bank, virtual
// machine, PoH chain and the wallet holding genesis keys.
type Node struct {
	cfg Config
	log *logrus.Logger

	dbMu sync.Mutex
	db   *runtime.AccountsDB

	pohMu sync.Mutex
	poh   *runtime.PohGenerator

	bank   *runtime.Bank
	svm    *runtime.SVM
	wallet *Wallet

	feedMu sync.Mutex
	subs   map[chan runtime.Entry]struct{}
}

// New builds a node: derives the genesis wallets, funds them in the
// account store and seeds the PoH chain.
func New(cfg Config, log *logrus.Logger) (*Node, error) {
	if log == nil {
		log = logrus.New()
	}

	wallet, err := GenesisWallet(cfg.GenesisAccounts, cfg.FundingMnemonic)
	if err != nil {
		return nil, err
	}

	db := runtime.NewAccountsDB()
	for id := 1; id <= wallet.Len(); id++ {
		account, _ := wallet.ByID(uint8(id))
		db.Store(account.Address, types.NewAccountSharedData(cfg.GenesisLamports, 0, common.SystemProgramID))
		log.WithFields(logrus.Fields{
			"id":       id,
			"address":  account.Address,
			"lamports": cfg.GenesisLamports,
		}).Info("genesis wallet funded")
	}

	return &Node{
		cfg:    cfg,
		log:    log,
		db:     db,
		poh:    runtime.NewPohGenerator([]byte(cfg.PohSeed), cfg.HashesPerTick),
		bank:   runtime.NewBank(),
		svm:    runtime.NewSVM(),
		wallet: wallet,
		subs:   make(map[chan runtime.Entry]struct{}),
	}, nil
}

// Config returns the node configuration.
func (n *Node) Config() Config {
	return n.cfg
}

// WalletAddress resolves a genesis wallet id to its address.
func (n *Node) WalletAddress(id uint8) (common.Address, bool) {
	account, ok := n.wallet.ByID(id)
	return account.Address, ok
}

// StartTicker runs the PoH clock until ctx is canceled: acquire the PoH
// lock, tick, release, sleep.
func (n *Node) StartTicker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Duration(n.cfg.TickInterval))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				entry := n.Tick()
				n.log.WithFields(logrus.Fields{
					"hashes": entry.NumHashes,
					"hash":   entry.Hash,
				}).Debug("poh tick")
			}
		}
	}()
}

// Tick advances the PoH chain by one tick and publishes the entry.
func (n *Node) Tick() runtime.Entry {
	n.pohMu.Lock()
	entry := n.poh.Tick()
	n.pohMu.Unlock()
	n.publish(entry)
	return entry
}

// TransferReceipt marks a successful submission.
type TransferReceipt struct {
	Signature  common.Signature `json:"signature"`
	EntryHash  common.Hash      `json:"entryHash"`
	EntryIndex int              `json:"entryIndex"`
}

// SubmitTransfer builds, signs and submits a transfer between two
// wallet ids.
func (n *Node) SubmitTransfer(fromID, toID uint8, lamports uint64) (*TransferReceipt, error) {
	from, ok := n.wallet.ByID(fromID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownWallet, "from %d", fromID)
	}
	to, ok := n.wallet.ByID(toID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownWallet, "to %d", toID)
	}

	// Hold the PoH lock only long enough to read the blockhash.
	n.pohMu.Lock()
	recentBlockhash := n.poh.LastHash()
	n.pohMu.Unlock()

	inst := system.NewTransferInstruction(from.Address, to.Address, lamports)
	tx, err := types.NewTransaction([]types.Instruction{inst}, recentBlockhash, from.Address)
	if err != nil {
		return nil, errors.Wrap(err, "build")
	}
	if _, err := tx.Sign(n.wallet.Lookup); err != nil {
		return nil, errors.Wrap(err, "sign")
	}

	receipt, err := n.SubmitTransaction(tx)
	if err != nil {
		return nil, err
	}
	n.log.WithFields(logrus.Fields{
		"from":     from.Address,
		"to":       to.Address,
		"lamports": lamports,
		"entry":    receipt.EntryIndex,
	}).Info("transfer recorded")
	return receipt, nil
}

// SubmitTransaction drives a signed transaction through the pipeline:
// bank validation, execution, then a PoH record. A failed transaction is
// not recorded.
func (n *Node) SubmitTransaction(tx *types.Transaction) (*TransferReceipt, error) {
	if err := n.bank.Validate(tx); err != nil {
		return nil, errors.Wrap(err, "bank")
	}

	// The store lock spans the whole load-and-commit of the execution.
	n.dbMu.Lock()
	err := n.svm.Execute(tx, n.db)
	n.dbMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "svm")
	}

	n.pohMu.Lock()
	entry := n.poh.Record([]types.Transaction{*tx})
	entryIndex := len(n.poh.Entries) - 1
	n.pohMu.Unlock()
	n.publish(entry)

	receipt := &TransferReceipt{
		EntryHash:  entry.Hash,
		EntryIndex: entryIndex,
	}
	if len(tx.Signatures) > 0 {
		receipt.Signature = tx.Signatures[0]
	}
	return receipt, nil
}

// Account returns the owned copy of the account at addr.
func (n *Node) Account(addr common.Address) (types.Account, bool) {
	n.dbMu.Lock()
	defer n.dbMu.Unlock()
	shared, ok := n.db.Load(addr)
	if !ok {
		return types.Account{}, false
	}
	return shared.ToAccount(), true
}

// Entries returns a copy of the ledger from index from on.
func (n *Node) Entries(from int) []runtime.Entry {
	n.pohMu.Lock()
	defer n.pohMu.Unlock()
	if from < 0 || from > len(n.poh.Entries) {
		return nil
	}
	out := make([]runtime.Entry, len(n.poh.Entries)-from)
	copy(out, n.poh.Entries[from:])
	return out
}

// LastHash returns the chain's current hash.
func (n *Node) LastHash() common.Hash {
	n.pohMu.Lock()
	defer n.pohMu.Unlock()
	return n.poh.LastHash()
}

// VerifyLedger replays the whole chain from the configured seed.
func (n *Node) VerifyLedger() bool {
	n.pohMu.Lock()
	defer n.pohMu.Unlock()
	return runtime.VerifyEntries([]byte(n.cfg.PohSeed), n.poh.Entries)
}

// SubscribeEntries registers a buffered feed of appended entries. The
// returned cancel func unsubscribes and closes the channel. Slow
// subscribers miss entries rather than blocking the pipeline.
func (n *Node) SubscribeEntries(buffer int) (<-chan runtime.Entry, func()) {
	ch := make(chan runtime.Entry, buffer)
	n.feedMu.Lock()
	n.subs[ch] = struct{}{}
	n.feedMu.Unlock()

	cancel := func() {
		n.feedMu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.feedMu.Unlock()
	}
	return ch, cancel
}

func (n *Node) publish(entry runtime.Entry) {
	n.feedMu.Lock()
	defer n.feedMu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// solnode is a single-process runtime: it accepts signed transactions
// over HTTP, validates and executes them against an in-memory account
// store, and stamps them into a Proof of History ledger.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cielu/go-solnode/node"
	"github.com/cielu/go-solnode/rpc"
	"github.com/cielu/go-solnode/runtime"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solnode",
		Short: "a didactic Solana-style node: validate, execute, stamp",
	}
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(verifyCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		logEntries bool
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "start the node and its RPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}

			cfg, err := node.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			n, err := node.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			n.StartTicker(ctx)

			if logEntries {
				go dumpEntries(n)
			}

			return rpc.NewServer(n, log).ListenAndServe(cfg.Listen)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "override the RPC listen address")
	cmd.Flags().BoolVar(&logEntries, "log-entries", false, "dump every ledger entry to the terminal")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

// dumpEntries prints every appended entry, record entries in full.
func dumpEntries(n *node.Node) {
	tickColor := color.New(color.Faint)
	recordColor := color.New(color.FgGreen, color.Bold)

	entries, cancel := n.SubscribeEntries(256)
	defer cancel()

	idx := 0
	for entry := range entries {
		if entry.IsTick() {
			tickColor.Printf("[entry #%-4d] TICK    hashes=%-6d hash=%s\n", idx, entry.NumHashes, entry.Hash)
		} else {
			recordColor.Printf("[entry #%-4d] RECORD  hashes=%-6d hash=%s txs=%d\n", idx, entry.NumHashes, entry.Hash, len(entry.Transactions))
			for ti := range entry.Transactions {
				tx := &entry.Transactions[ti]
				fmt.Printf("  tx[%d]:\n%s", ti, spew.Sdump(tx.Message))
				for i, key := range tx.Message.AccountKeys {
					fmt.Printf("    [%d] %s  writable=%v  signer=%v\n", i, key, tx.Message.IsWritable(i), tx.Message.IsSigner(i))
				}
			}
		}
		idx++
	}
}

func verifyCmd() *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "verify [entries.json]",
		Short: "replay a ledger dump and check every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var dump struct {
				Entries []runtime.Entry `json:"entries"`
			}
			if err := json.Unmarshal(raw, &dump); err != nil {
				return fmt.Errorf("parsing entries: %w", err)
			}

			if runtime.VerifyEntries([]byte(seed), dump.Entries) {
				color.Green("chain valid: %d entries", len(dump.Entries))
				return nil
			}
			color.Red("chain INVALID")
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", node.DefaultConfig().PohSeed, "the seed the chain was started from")
	return cmd
}

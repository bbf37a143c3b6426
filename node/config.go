// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package node

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration in time.ParseDuration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration syntax.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config carries everything the node needs at startup.
type Config struct {
	// Listen is the RPC listen address.
	Listen string `yaml:"listen"`
	// TickInterval is the wall-clock sleep between PoH ticks.
	TickInterval Duration `yaml:"tickInterval"`
	// HashesPerTick is how many sequential hashes make one tick.
	HashesPerTick uint64 `yaml:"hashesPerTick"`
	// PohSeed seeds the hash chain.
	PohSeed string `yaml:"pohSeed"`
	// GenesisAccounts is the number of pre-funded wallets.
	GenesisAccounts int `yaml:"genesisAccounts"`
	// GenesisLamports is the balance each genesis wallet starts with.
	GenesisLamports uint64 `yaml:"genesisLamports"`
	// FundingMnemonic optionally adds one extra funded wallet derived
	// from a BIP-39 mnemonic.
	FundingMnemonic string `yaml:"fundingMnemonic"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen:          ":8080",
		TickInterval:    Duration(500 * time.Millisecond),
		HashesPerTick:   100,
		PohSeed:         "solnode-genesis",
		GenesisAccounts: 5,
		GenesisLamports: 100_000_000_000,
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file, and
// SOLNODE_* environment overrides (a .env file is honored if present).
func LoadConfig(path string) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := os.Getenv("SOLNODE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SOLNODE_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("SOLNODE_TICK_INTERVAL: %w", err)
		}
		cfg.TickInterval = Duration(d)
	}
	if v := os.Getenv("SOLNODE_HASHES_PER_TICK"); v != "" {
		h, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SOLNODE_HASHES_PER_TICK: %w", err)
		}
		cfg.HashesPerTick = h
	}
	if v := os.Getenv("SOLNODE_POH_SEED"); v != "" {
		cfg.PohSeed = v
	}
	if v := os.Getenv("SOLNODE_FUNDING_MNEMONIC"); v != "" {
		cfg.FundingMnemonic = v
	}

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	if cfg.HashesPerTick == 0 {
		return fmt.Errorf("hashesPerTick must be positive")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tickInterval must be positive")
	}
	if cfg.GenesisAccounts < 1 || cfg.GenesisAccounts > 254 {
		return fmt.Errorf("genesisAccounts must be in [1, 254]")
	}
	return nil
}

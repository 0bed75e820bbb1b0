// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the airdrop tooling configuration.
//
// The file is TOML. Keys missing from the file keep their DefaultConfig
// values; unknown keys are ignored so older binaries can read newer files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
)

const configFileName = "config.toml"

// Config holds the settings shared by the CLI and embedding services.
type Config struct {
	DataDir   string `toml:"datadir"`
	Network   string `toml:"network"`
	LogLevel  string `toml:"loglevel"`
	LogFile   string `toml:"logfile"`
	LogFormat string `toml:"logformat"`

	// ProgramID is the base58 airdrop program identity. Empty means the
	// address of the "program" key in the keystore.
	ProgramID string `toml:"program_id"`

	// TokenProgramID is the base58 identity token accounts are owned by.
	TokenProgramID string `toml:"token_program_id"`

	// AuthoritySeed derives the custody authority. It must match across every
	// client of one deployment.
	AuthoritySeed string `toml:"authority_seed"`

	Policy Policy `toml:"policy"`
}

// Policy mirrors processor.Policy.
type Policy struct {
	CheckedReward         bool `toml:"checked_reward"`
	EnforceExpectedAmount bool `toml:"enforce_expected_amount"`
	BindClaimAddress      bool `toml:"bind_claim_address"`
}

// DefaultDataDir returns ~/.airdrop, or .airdrop in the working directory when
// the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airdrop"
	}
	return filepath.Join(home, ".airdrop")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		DataDir:        DefaultDataDir(),
		Network:        "localnet",
		LogLevel:       "info",
		LogFormat:      "console",
		TokenProgramID: solana.TokenProgramID.String(),
		Policy:         Policy{BindClaimAddress: true},
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// LoadConfig reads path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfigSyntax, perr.Error())
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("# Airdrop Configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ParseKey decodes a base58 identity.
func ParseKey(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, s, err)
	}
	return pk, nil
}

// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/airdrop-go/authority"
	"github.com/bitfsorg/airdrop-go/logging"
)

var validNetworks = map[string]bool{
	"mainnet":  true,
	"testnet":  true,
	"devnet":   true,
	"localnet": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}

	// Accept exactly what the logger will accept.
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "", "console", "json":
	default:
		return ErrInvalidLogFormat
	}

	if cfg.ProgramID != "" {
		if _, err := ParseKey(cfg.ProgramID); err != nil {
			return fmt.Errorf("program_id: %w", err)
		}
	}
	if _, err := ParseKey(cfg.TokenProgramID); err != nil {
		return fmt.Errorf("token_program_id: %w", err)
	}

	if len(cfg.AuthoritySeed) > authority.MaxSeedLen {
		return ErrSeedTooLong
	}

	return nil
}

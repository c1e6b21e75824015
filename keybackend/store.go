// Package keybackend resolves the ImageKit key pair from inline configuration
// and an optional JSON keys file.
package keybackend

import (
	"fmt"
	"log/slog"
)

// KeysConfig holds configuration for loading the key pair.
type KeysConfig struct {
	PublicKey  string `mapstructure:"public_key" validate:"required,startswith=public_"`
	PrivateKey string `mapstructure:"private_key" validate:"required,startswith=private_"`
	File       string `mapstructure:"keys_file"` // Path to JSON file containing the pair
}

// LogValue keeps the private key out of logs.
func (c KeysConfig) LogValue() slog.Value {
	private := "(not set)"
	if c.PrivateKey != "" {
		private = "[redacted]"
	}
	return slog.GroupValue(
		slog.String("public_key", c.PublicKey),
		slog.String("private_key", private),
		slog.String("keys_file", c.File),
	)
}

// Resolve merges inline keys with keys from the file (if specified).
// Non-empty file values take precedence over inline values.
func Resolve(cfg KeysConfig) (KeyPair, error) {
	pair := KeyPair{
		PublicKey:  cfg.PublicKey,
		PrivateKey: cfg.PrivateKey,
	}

	if cfg.File != "" {
		filePair, err := LoadKeyPairFromFile(cfg.File)
		if err != nil {
			return KeyPair{}, err
		}
		if filePair.PublicKey != "" {
			pair.PublicKey = filePair.PublicKey
		}
		if filePair.PrivateKey != "" {
			pair.PrivateKey = filePair.PrivateKey
		}
	}

	if pair.PrivateKey == "" {
		return KeyPair{}, fmt.Errorf("resolve keys: %w", ErrPrivateKeyMissing)
	}

	return pair, nil
}

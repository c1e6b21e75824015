package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// KeyPair holds an account's public and private key.
type KeyPair struct {
	PublicKey  string `json:"public_key" mapstructure:"public_key"`
	PrivateKey string `json:"private_key" mapstructure:"private_key"`
}

// LoadKeyPairFromFile loads a key pair from a JSON file:
//
//	{"public_key": "public_...", "private_key": "private_..."}
//
// Surrounding whitespace is trimmed from both values.
func LoadKeyPairFromFile(path string) (KeyPair, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return KeyPair{}, fmt.Errorf("read keys file: %w", err)
	}

	var pair KeyPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return KeyPair{}, fmt.Errorf("parse keys file: %w", err)
	}

	pair.PublicKey = strings.TrimSpace(pair.PublicKey)
	pair.PrivateKey = strings.TrimSpace(pair.PrivateKey)

	return pair, nil
}

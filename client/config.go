package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sagarc03/ikauth"
)

// DefaultAuthEndpoint is where a locally started token service listens.
const DefaultAuthEndpoint = "http://localhost:3001/auth"

// Profile holds the public settings for one ImageKit account. Profiles never
// hold a private key; LoadConfigFile rejects files that try.
type Profile struct {
	Name         string `yaml:"name"`
	URLEndpoint  string `yaml:"url_endpoint,omitempty"`
	PublicKey    string `yaml:"public_key,omitempty"`
	AuthEndpoint string `yaml:"auth_endpoint,omitempty"`
	Default      bool   `yaml:"default,omitempty"`
}

// ConfigFile holds the full config file structure with multiple profiles.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		return c.GetDefaultProfile()
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetDefaultProfile returns the default profile.
// If no profile is marked as default, returns the first profile.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	for i := range c.Profiles {
		if c.Profiles[i].Default {
			return &c.Profiles[i], nil
		}
	}

	return &c.Profiles[0], nil
}

// AddProfile adds a new profile. Returns ErrProfileExists if a profile
// with the same name already exists.
func (c *ConfigFile) AddProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces an existing profile.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SetDefault marks name as the default and clears the flag on all others.
func (c *ConfigFile) SetDefault(name string) error {
	found := false
	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
		if c.Profiles[i].Default {
			found = true
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return nil
}

// ProfileNames returns a list of all profile names.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i := range c.Profiles {
		names[i] = c.Profiles[i].Name
	}
	return names
}

// Save writes the config to the specified path.
// Creates the parent directory if it doesn't exist.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads the config file from the specified path. Unknown keys
// are an error, so a stray private_key entry is refused instead of ignored.
func LoadConfigFile(path string) (*ConfigFile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConfigFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns the default config file path (~/.ikauth/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ikauth", "config.yaml")
}

// Config holds resolved client configuration for a single account.
type Config struct {
	URLEndpoint  string
	PublicKey    string
	AuthEndpoint string
}

// WithDefaults returns a copy of the config with default values applied.
// If AuthEndpoint is empty, it defaults to DefaultAuthEndpoint.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.AuthEndpoint == "" {
		cfg.AuthEndpoint = DefaultAuthEndpoint
	}
	return &cfg
}

// Validate checks the fields that are set. Empty fields are reported by the
// operations that need them.
func (c *Config) Validate() error {
	if c.PublicKey != "" {
		if err := ikauth.ValidatePublicKey(c.PublicKey); err != nil {
			return err
		}
	}
	if c.AuthEndpoint != "" {
		if err := validateHTTPURL(c.AuthEndpoint); err != nil {
			return fmt.Errorf("auth endpoint: %w", err)
		}
	}
	return nil
}

// Public returns the config as the shared public view.
func (c *Config) Public() ikauth.PublicConfig {
	return ikauth.PublicConfig{
		URLEndpoint:  c.URLEndpoint,
		PublicKey:    c.PublicKey,
		AuthEndpoint: c.AuthEndpoint,
	}
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: %w", raw, ikauth.ErrConfiguration)
	}
	return nil
}

// ConfigFromProfile creates a Config from a Profile.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{
		URLEndpoint:  p.URLEndpoint,
		PublicKey:    p.PublicKey,
		AuthEndpoint: p.AuthEndpoint,
	}
}

// ConfigFromEnv loads config from environment variables.
func ConfigFromEnv() *Config {
	return &Config{
		URLEndpoint:  os.Getenv("IKAUTH_URL_ENDPOINT"),
		PublicKey:    os.Getenv("IKAUTH_PUBLIC_KEY"),
		AuthEndpoint: os.Getenv("IKAUTH_AUTH_ENDPOINT"),
	}
}

// ProfileFromEnv returns the profile name from IKAUTH_PROFILE environment variable.
func ProfileFromEnv() string {
	return os.Getenv("IKAUTH_PROFILE")
}

// ConfigPathFromEnv returns the config file path from IKAUTH_CONFIG environment variable.
func ConfigPathFromEnv() string {
	return os.Getenv("IKAUTH_CONFIG")
}

// MergeConfig merges multiple configs, with later configs taking precedence.
// Empty strings in later configs do not override non-empty values in earlier configs.
func MergeConfig(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.URLEndpoint != "" {
			result.URLEndpoint = cfg.URLEndpoint
		}
		if cfg.PublicKey != "" {
			result.PublicKey = cfg.PublicKey
		}
		if cfg.AuthEndpoint != "" {
			result.AuthEndpoint = cfg.AuthEndpoint
		}
	}
	return result
}

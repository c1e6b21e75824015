package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth/client"
)

var (
	version = "dev"

	cfgFile      string
	profileName  string
	urlEndpoint  string
	publicKey    string
	authEndpoint string
	jsonOutput   bool
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:     "ikauth-cli",
	Version: version,
	Short:   "Client for direct ImageKit uploads",
	Long: `ikauth-cli - upload files straight to ImageKit and build delivery URLs.

The CLI never sees the private key. Every upload asks the ikauth token
service for a fresh signature, token and expiry first.

Settings come from, in increasing precedence:
  - a profile in ~/.ikauth/config.yaml (or --config / IKAUTH_CONFIG)
  - IKAUTH_URL_ENDPOINT, IKAUTH_PUBLIC_KEY, IKAUTH_AUTH_ENDPOINT
  - command line flags`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.ikauth/config.yaml, env: IKAUTH_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: IKAUTH_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&urlEndpoint, "url-endpoint", "", "ImageKit URL endpoint (env: IKAUTH_URL_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&publicKey, "public-key", "", "ImageKit public key (env: IKAUTH_PUBLIC_KEY)")
	rootCmd.PersistentFlags().StringVar(&authEndpoint, "auth-endpoint", "", "token service URL (default: "+client.DefaultAuthEndpoint+", env: IKAUTH_AUTH_ENDPOINT)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path from the flag, the environment
// or the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := client.ConfigPathFromEnv(); p != "" {
		return p
	}
	return client.DefaultConfigPath()
}

// buildConfig merges config from file, env vars, and flags (flags take precedence).
func buildConfig() (*client.Config, error) {
	var configs []*client.Config

	// 1. Load the selected profile
	explicit := cfgFile != "" || client.ConfigPathFromEnv() != ""
	name := profileName
	if name == "" {
		name = client.ProfileFromEnv()
	}

	if configPath := getConfigPath(); configPath != "" {
		file, err := client.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, profileErr := file.GetProfile(name)
			if profileErr != nil && (name != "" || !errors.Is(profileErr, client.ErrNoProfiles)) {
				return nil, profileErr
			}
			configs = append(configs, client.ConfigFromProfile(p))
		case explicit || name != "":
			// Only error if the user asked for a file or profile
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	// 2. Load from environment variables
	configs = append(configs, client.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &client.Config{
		URLEndpoint:  urlEndpoint,
		PublicKey:    publicKey,
		AuthEndpoint: authEndpoint,
	})

	return client.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() client.Formatter {
	return client.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*client.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return client.New(cfg)
}

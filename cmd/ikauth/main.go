package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "ikauth",
	Short:   "Token service for direct ImageKit uploads",
	Long: `ikauth signs short lived upload parameters for ImageKit so browsers and
other clients can upload directly without ever seeing the private key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: IKAUTH_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("url-endpoint", "", "ImageKit URL endpoint (env: IMAGEKIT_URL_ENDPOINT)")
	rootCmd.PersistentFlags().String("public-key", "", "ImageKit public key (env: IMAGEKIT_PUBLIC_KEY)")
	rootCmd.PersistentFlags().String("keys-file", "", "JSON file holding public_key and private_key (env: IKAUTH_IMAGEKIT_KEYS_FILE)")
	rootCmd.PersistentFlags().Int("token-ttl", 0, "token lifetime in seconds, at most 3600 (default: 1800, env: IKAUTH_IMAGEKIT_TOKEN_TTL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth/client"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Fetch upload parameters from the token service",
	Long: `Fetch one set of upload authentication parameters.

Each call asks the token service for a new token; nothing is cached.

Examples:
  ikauth-cli auth
  ikauth-cli auth --auth-endpoint http://localhost:3001/auth --json`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func runAuth(cmd *cobra.Command, _ []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	formatter := getFormatter()

	params, err := c.Authenticate(cmd.Context())
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	return formatter.FormatAuth(os.Stdout, client.AuthResult{
		Endpoint: c.Config().AuthEndpoint,
		Params:   params,
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth"
	"github.com/sagarc03/ikauth/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue or check upload parameters without running the server",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Print one set of upload parameters as JSON",
	Long: `Print one set of upload parameters as JSON, in the same shape
GET /auth returns.

Example:
  ikauth token issue --keys-file ./keys.json`,
	Args: cobra.NoArgs,
	RunE: runTokenIssue,
}

var tokenVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a signature against the configured private key",
	Long: `Check that a signature matches the token and expire it was issued
for, and that the parameters have not expired.

Example:
  ikauth token verify --token 1bab386f-... --expire 1700001800 --signature 9a8b...`,
	Args: cobra.NoArgs,
	RunE: runTokenVerify,
}

var (
	verifyToken     string
	verifyExpire    int64
	verifySignature string
)

func init() {
	tokenVerifyCmd.Flags().StringVar(&verifyToken, "token", "", "token to check")
	tokenVerifyCmd.Flags().Int64Var(&verifyExpire, "expire", 0, "expire as unix seconds")
	tokenVerifyCmd.Flags().StringVar(&verifySignature, "signature", "", "hex signature")
	_ = tokenVerifyCmd.MarkFlagRequired("token")
	_ = tokenVerifyCmd.MarkFlagRequired("expire")
	_ = tokenVerifyCmd.MarkFlagRequired("signature")

	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenVerifyCmd)
	rootCmd.AddCommand(tokenCmd)
}

func newSigner(cmd *cobra.Command) (*ikauth.Signer, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	return ikauth.NewSigner(cfg.ImageKit.Keys.PrivateKey, ikauth.WithTTL(cfg.TokenTTL()))
}

func runTokenIssue(cmd *cobra.Command, _ []string) error {
	signer, err := newSigner(cmd)
	if err != nil {
		return err
	}

	params, err := signer.Issue(cmd.Context())
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}

func runTokenVerify(cmd *cobra.Command, _ []string) error {
	signer, err := newSigner(cmd)
	if err != nil {
		return err
	}

	params := ikauth.AuthParams{
		Token:     verifyToken,
		Expire:    verifyExpire,
		Signature: verifySignature,
	}
	if err := signer.Verify(params, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Signature valid, expires %s.\n", params.ExpiresAt().UTC().Format(time.RFC3339))
	return nil
}

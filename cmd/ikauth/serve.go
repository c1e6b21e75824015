package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth"
	"github.com/sagarc03/ikauth/config"
	ikhttp "github.com/sagarc03/ikauth/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the token service",
	Long: `Start the ikauth HTTP server.

GET /auth returns a fresh signature, token and expire on every call.
GET / serves the showcase page unless --showcase=false.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 3001, "HTTP server port (env: IKAUTH_SERVER_PORT)")
	serveCmd.Flags().Bool("showcase", true, "serve the showcase page at / (env: IKAUTH_SERVER_SHOWCASE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	signer, err := ikauth.NewSigner(cfg.ImageKit.Keys.PrivateKey, ikauth.WithTTL(cfg.TokenTTL()))
	if err != nil {
		return fmt.Errorf("create signer: %w", err)
	}

	handler, err := ikhttp.NewHandler(&ikhttp.HandlerConfig{
		Public:   cfg.Public(),
		CORS:     cfg.CORS,
		Showcase: cfg.Server.Showcase,
	}, signer)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "config", cfg)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

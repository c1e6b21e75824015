package config_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sagarc03/ikauth/config"
)

func ExampleLoad() {
	// Keys usually come from the environment
	_ = os.Setenv("IMAGEKIT_URL_ENDPOINT", "https://ik.imagekit.io/demo")
	_ = os.Setenv("IMAGEKIT_PUBLIC_KEY", "public_example")
	_ = os.Setenv("IMAGEKIT_PRIVATE_KEY", "private_example")
	defer func() {
		_ = os.Unsetenv("IMAGEKIT_URL_ENDPOINT")
		_ = os.Unsetenv("IMAGEKIT_PUBLIC_KEY")
		_ = os.Unsetenv("IMAGEKIT_PRIVATE_KEY")
	}()

	cfg, err := config.Load(nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Port: %d, TTL: %s\n", cfg.Server.Port, cfg.TokenTTL())
	// Output: Port: 3001, TTL: 30m0s
}

func ExampleWithContext() {
	cfg := &config.Config{Server: config.ServerConfig{Port: 3001}}

	// Store config in context
	ctx := config.WithContext(context.Background(), cfg)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved port: %d\n", retrieved.Server.Port)
	// Output: Retrieved port: 3001
}

// Package config provides configuration loading and validation for the ikauth
// token service.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (IKAUTH_ prefix, plus the IMAGEKIT_* aliases)
//  4. CLI flags
//  5. The keys file named by imagekit.keys_file, when set
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with IKAUTH_ prefix:
//   - server.port → IKAUTH_SERVER_PORT
//   - imagekit.token_ttl → IKAUTH_IMAGEKIT_TOKEN_TTL
//   - client.auth_endpoint → IKAUTH_CLIENT_AUTH_ENDPOINT
//
// The account settings also accept the conventional ImageKit names:
//   - IMAGEKIT_URL_ENDPOINT
//   - IMAGEKIT_PUBLIC_KEY
//   - IMAGEKIT_PRIVATE_KEY
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - The URL endpoint must be an absolute URL
//   - Keys must carry their public_ and private_ prefixes
//   - Token TTL must be 1-3600 seconds
//   - Log level must be debug, info, warn, or error
//
// Every error returned by Load wraps ikauth.ErrConfiguration.
//
// # Secrets
//
// Config.Public is the only view handed to pages and clients. Config and
// keybackend.KeysConfig implement slog.LogValuer and redact the private key.
package config

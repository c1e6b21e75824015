package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/ikauth"
	ikhttp "github.com/sagarc03/ikauth/http"
	"github.com/sagarc03/ikauth/keybackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for ikauth.
type Config struct {
	Env      string            `mapstructure:"env"`
	Server   ServerConfig      `mapstructure:"server"`
	ImageKit ImageKitConfig    `mapstructure:"imagekit"`
	Client   ClientConfig      `mapstructure:"client"`
	CORS     ikhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig         `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     int  `mapstructure:"port" validate:"required,min=1,max=65535"`
	Showcase bool `mapstructure:"showcase"`
}

// ImageKitConfig holds the vendor account settings. The keys are squashed so
// they live directly under imagekit.
type ImageKitConfig struct {
	URLEndpoint string                `mapstructure:"url_endpoint" validate:"required,url"`
	Keys        keybackend.KeysConfig `mapstructure:",squash"`
	TokenTTL    int                   `mapstructure:"token_ttl" validate:"min=1,max=3600"`
}

// ClientConfig holds what a page or client process needs to find the service.
type ClientConfig struct {
	AuthEndpoint string `mapstructure:"auth_endpoint" validate:"required,url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Public returns the subset of the configuration that may leave the server.
func (c *Config) Public() ikauth.PublicConfig {
	return ikauth.PublicConfig{
		URLEndpoint:  c.ImageKit.URLEndpoint,
		PublicKey:    c.ImageKit.Keys.PublicKey,
		AuthEndpoint: c.Client.AuthEndpoint,
	}
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.ImageKit.TokenTTL) * time.Second
}

// LogValue keeps the private key out of startup logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.Int("port", c.Server.Port),
		slog.Bool("showcase", c.Server.Showcase),
		slog.String("url_endpoint", c.ImageKit.URLEndpoint),
		slog.Any("keys", c.ImageKit.Keys),
		slog.Int("token_ttl", c.ImageKit.TokenTTL),
		slog.String("auth_endpoint", c.Client.AuthEndpoint),
		slog.String("log_level", c.Log.Level),
	)
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"showcase":     "server.showcase",
	"url-endpoint": "imagekit.url_endpoint",
	"public-key":   "imagekit.public_key",
	"keys-file":    "imagekit.keys_file",
	"token-ttl":    "imagekit.token_ttl",
	"log-level":    "log.level",
}

// envAliases binds the variable names used by existing ImageKit deployments
// next to the IKAUTH_ prefixed ones.
var envAliases = map[string][]string{
	"imagekit.url_endpoint": {"IKAUTH_IMAGEKIT_URL_ENDPOINT", "IMAGEKIT_URL_ENDPOINT"},
	"imagekit.public_key":   {"IKAUTH_IMAGEKIT_PUBLIC_KEY", "IMAGEKIT_PUBLIC_KEY"},
	"imagekit.private_key":  {"IKAUTH_IMAGEKIT_PRIVATE_KEY", "IMAGEKIT_PRIVATE_KEY"},
	"imagekit.keys_file":    {"IKAUTH_IMAGEKIT_KEYS_FILE"},
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// bindEnv registers keys that have no default so AutomaticEnv alone would not
// surface them during Unmarshal.
func bindEnv(v *viper.Viper) {
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.showcase", true)

	v.SetDefault("imagekit.token_ttl", int(ikauth.DefaultTokenTTL/time.Second))

	v.SetDefault("client.auth_endpoint", "http://localhost:3001/auth")

	v.SetDefault("cors.allowed_headers", ikhttp.DefaultAllowedHeaders)
	v.SetDefault("cors.max_age", 0)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
//
// Every failure wraps ikauth.ErrConfiguration; callers treat it as fatal.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("IKAUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w: %w", ikauth.ErrConfiguration, err)
	}

	// 6. Merge the keys file over inline keys
	pair, err := keybackend.Resolve(cfg.ImageKit.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ikauth.ErrConfiguration, err)
	}
	cfg.ImageKit.Keys.PublicKey = pair.PublicKey
	cfg.ImageKit.Keys.PrivateKey = pair.PrivateKey

	// 7. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w: %w", ikauth.ErrConfiguration, err)
	}

	return &cfg, nil
}

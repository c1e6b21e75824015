package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/sagarc03/ikauth"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is how many files UploadFiles sends at once.
	DefaultConcurrency = 4
)

// Client uploads files directly to the vendor and builds delivery URLs. It
// holds only public configuration.
type Client struct {
	config         *Config
	httpClient     *http.Client
	tokens         TokenSource
	uploadEndpoint string
	builder        *ikauth.URLBuilder
	validate       *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUploadEndpoint overrides DefaultUploadEndpoint.
func WithUploadEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.uploadEndpoint = endpoint
	}
}

// WithTokenSource replaces the HTTP authenticator.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: &Config{
			URLEndpoint:  strings.TrimSuffix(cfg.URLEndpoint, "/"),
			PublicKey:    cfg.PublicKey,
			AuthEndpoint: cfg.AuthEndpoint,
		},
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		uploadEndpoint: DefaultUploadEndpoint,
		validate:       validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tokens == nil {
		c.tokens = NewAuthenticator(c.config.AuthEndpoint, c.httpClient).Authenticate
	}

	if c.config.URLEndpoint != "" {
		builder, err := ikauth.NewURLBuilder(c.config.URLEndpoint)
		if err != nil {
			return nil, err
		}
		c.builder = builder
	}

	return c, nil
}

// Config returns a copy of the resolved configuration.
func (c *Client) Config() Config {
	return *c.config
}

// Authenticate fetches one fresh set of upload parameters.
func (c *Client) Authenticate(ctx context.Context) (ikauth.AuthParams, error) {
	return c.tokens(ctx)
}

// URL builds a delivery URL against the configured endpoint.
func (c *Client) URL(opts ikauth.ImageOptions) (string, error) {
	if c.builder == nil {
		return "", ErrURLEndpointRequired
	}
	return c.builder.URL(opts)
}

// Image returns an element model for opts rendered with display settings.
func (c *Client) Image(opts ikauth.ImageOptions, display ikauth.DisplayOptions) (*ikauth.Image, error) {
	if c.builder == nil {
		return nil, ErrURLEndpointRequired
	}
	return ikauth.NewImage(c.builder, opts, display)
}

// Upload sends one file and blocks until it completes.
func (c *Client) Upload(ctx context.Context, req UploadRequest) Result {
	return c.Start(ctx, req).Wait()
}

// UploadFiles uploads local files concurrently, each with its own token.
// One file failing does not stop the others. Results keep the order of paths.
// The file name defaults to the base name of each path.
func (c *Client) UploadFiles(ctx context.Context, paths []string, opts UploadOptions, concurrency int) ([]FileUploadResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]FileUploadResult, len(paths))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = c.uploadFile(ctx, path, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

func (c *Client) uploadFile(ctx context.Context, path string, opts UploadOptions) FileUploadResult {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided input
	if err != nil {
		return FileUploadResult{LocalPath: path, Err: fmt.Errorf("read file: %w", err)}
	}

	fileOpts := opts
	fileOpts.FileName = filepath.Base(path)

	res := c.Upload(ctx, UploadRequest{File: data, Options: fileOpts})
	return FileUploadResult{
		LocalPath: path,
		Size:      int64(len(data)),
		Response:  res.Response,
		Err:       res.Err,
	}
}

// HasUploadErrors returns true if any upload failed.
func HasUploadErrors(results []FileUploadResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

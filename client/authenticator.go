package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sagarc03/ikauth"
)

// maxAuthResponse bounds the body read from the authentication endpoint.
const maxAuthResponse = 64 << 10

// TokenSource yields a fresh set of upload parameters per call.
type TokenSource func(ctx context.Context) (ikauth.AuthParams, error)

// Authenticator fetches upload parameters from the token service. Every call
// performs its own request; nothing is retried or cached.
type Authenticator struct {
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

// NewAuthenticator returns an Authenticator for endpoint. A nil httpClient
// uses one with DefaultTimeout.
func NewAuthenticator(endpoint string, httpClient *http.Client) *Authenticator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Authenticator{
		endpoint:   endpoint,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Endpoint returns the authentication endpoint URL.
func (a *Authenticator) Endpoint() string {
	return a.endpoint
}

// Authenticate performs one GET against the endpoint. Any failure, including a
// non-2xx status, an undecodable body or already expired parameters, is
// returned as *AuthFetchError.
func (a *Authenticator) Authenticate(ctx context.Context) (ikauth.AuthParams, error) {
	fail := func(status int, err error) (ikauth.AuthParams, error) {
		return ikauth.AuthParams{}, &AuthFetchError{Endpoint: a.endpoint, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint, http.NoBody)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("do request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthResponse))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}

	var params ikauth.AuthParams
	if err := json.Unmarshal(body, &params); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("parse response: %w", err))
	}

	if params.Signature == "" || params.Token == "" || params.Expire == 0 {
		return fail(resp.StatusCode, errors.New("incomplete authentication parameters"))
	}
	if params.Expired(a.now()) {
		return fail(resp.StatusCode, fmt.Errorf("parameters expired at %s", params.ExpiresAt().UTC().Format(time.RFC3339)))
	}

	return params, nil
}

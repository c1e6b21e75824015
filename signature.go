package ikauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is the vendor's signing scheme
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrivateKeyPrefix = "private_"
	PublicKeyPrefix  = "public_"

	DefaultTokenTTL = 30 * time.Minute
	// MaxTokenTTL is the longest expiry the upload API accepts.
	MaxTokenTTL = time.Hour
)

// Signer issues upload authentication parameters.
// It holds no mutable state and is safe for concurrent use.
type Signer struct {
	privateKey []byte
	ttl        time.Duration
	now        func() time.Time
	newToken   func() string
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithTTL sets how far in the future issued parameters expire.
func WithTTL(ttl time.Duration) SignerOption {
	return func(s *Signer) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// WithTokenSource replaces the random UUID token generator.
func WithTokenSource(fn func() string) SignerOption {
	return func(s *Signer) {
		s.newToken = fn
	}
}

// ValidatePrivateKey checks that key looks like an account private key.
func ValidatePrivateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("private key is required: %w", ErrConfiguration)
	}
	if !strings.HasPrefix(key, PrivateKeyPrefix) || len(key) == len(PrivateKeyPrefix) {
		return fmt.Errorf("private key must start with %q: %w", PrivateKeyPrefix, ErrConfiguration)
	}
	return nil
}

// ValidatePublicKey checks that key looks like an account public key.
func ValidatePublicKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("public key is required: %w", ErrConfiguration)
	}
	if !strings.HasPrefix(key, PublicKeyPrefix) || len(key) == len(PublicKeyPrefix) {
		return fmt.Errorf("public key must start with %q: %w", PublicKeyPrefix, ErrConfiguration)
	}
	return nil
}

// NewSigner creates a signer for the given private key.
//
// It returns an error wrapping ErrConfiguration when the key is absent or
// malformed, or when the TTL is outside (0, MaxTokenTTL]. Callers should treat
// that as a startup failure.
func NewSigner(privateKey string, opts ...SignerOption) (*Signer, error) {
	if err := ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}

	s := &Signer{
		privateKey: []byte(privateKey),
		ttl:        DefaultTokenTTL,
		now:        time.Now,
		newToken:   func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ttl < time.Second || s.ttl > MaxTokenTTL {
		return nil, fmt.Errorf("token ttl must be between 1s and %s, got %s: %w", MaxTokenTTL, s.ttl, ErrConfiguration)
	}

	return s, nil
}

// TTL returns the configured expiry window.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue returns a fresh AuthParams value.
//
// The token is a random UUID, the expiry is now plus the TTL in Unix seconds
// and the signature is hex(HMAC-SHA1(privateKey, token + expire)).
// Successive calls are independent.
func (s *Signer) Issue(ctx context.Context) (AuthParams, error) {
	if err := ctx.Err(); err != nil {
		return AuthParams{}, err
	}

	token := s.newToken()
	expire := s.now().Add(s.ttl).Unix()

	return AuthParams{
		Signature: s.Sign(token, expire),
		Token:     token,
		Expire:    expire,
	}, nil
}

// Sign computes the signature for a token and expiry.
func (s *Signer) Sign(token string, expire int64) string {
	return calculateSignature(s.privateKey, token, expire)
}

// Verify checks that params were produced with this signer's key and have not
// expired at now.
//
// Verification order:
//  1. token and signature present
//  2. not expired
//  3. expiry not further out than MaxTokenTTL
//  4. signature matches
func (s *Signer) Verify(params AuthParams, now time.Time) error {
	if params.Token == "" || params.Signature == "" {
		return fmt.Errorf("missing token or signature: %w", ErrUnauthorized)
	}

	if params.Expired(now) {
		return fmt.Errorf("parameters expired: %w", ErrUnauthorized)
	}

	if params.ExpiresAt().Sub(now) > MaxTokenTTL {
		return fmt.Errorf("expiry more than %s in the future: %w", MaxTokenTTL, ErrUnauthorized)
	}

	expected := s.Sign(params.Token, params.Expire)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(params.Signature))) {
		return fmt.Errorf("signature mismatch: %w", ErrUnauthorized)
	}

	return nil
}

func calculateSignature(key []byte, token string, expire int64) string {
	return hex.EncodeToString(hmacSHA1(key, []byte(token+strconv.FormatInt(expire, 10))))
}

func hmacSHA1(key, data []byte) []byte {
	h := hmac.New(sha1.New, key)
	h.Write(data)
	return h.Sum(nil)
}

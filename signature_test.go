package ikauth_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/ikauth"
)

const testPrivateKey = "private_lJ1yXi0kqBnYrQ3mT8vEcXQ2aZk="

func referenceSignature(key, token string, expire int64) string {
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

func TestNewSigner_InvalidKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "whitespace", key: "   "},
		{name: "public key", key: "public_abc"},
		{name: "prefix only", key: "private_"},
		{name: "no prefix", key: "lJ1yXi0kqBnYrQ3mT8vEcXQ2aZk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signer, err := ikauth.NewSigner(tt.key)
			require.ErrorIs(t, err, ikauth.ErrConfiguration)
			assert.Nil(t, signer)
		})
	}
}

func TestNewSigner_InvalidTTL(t *testing.T) {
	t.Parallel()

	for _, ttl := range []time.Duration{0, -time.Minute, 500 * time.Millisecond, 2 * time.Hour} {
		_, err := ikauth.NewSigner(testPrivateKey, ikauth.WithTTL(ttl))
		assert.ErrorIs(t, err, ikauth.ErrConfiguration, "ttl %s", ttl)
	}
}

func TestNewSigner_Defaults(t *testing.T) {
	t.Parallel()

	signer, err := ikauth.NewSigner(testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, ikauth.DefaultTokenTTL, signer.TTL())
}

func TestSigner_Issue_MatchesVendorContract(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	signer, err := ikauth.NewSigner(testPrivateKey,
		ikauth.WithClock(func() time.Time { return now }),
		ikauth.WithTokenSource(func() string { return "fixed-token" }),
	)
	require.NoError(t, err)

	params, err := signer.Issue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fixed-token", params.Token)
	assert.Equal(t, now.Unix()+1800, params.Expire)
	assert.Equal(t, referenceSignature(testPrivateKey, "fixed-token", params.Expire), params.Signature)
	assert.Len(t, params.Signature, 40)
}

func TestSigner_Issue_ExpireInFuture(t *testing.T) {
	t.Parallel()

	signer, err := ikauth.NewSigner(testPrivateKey, ikauth.WithTTL(time.Second))
	require.NoError(t, err)

	for range 20 {
		received := time.Now()
		params, err := signer.Issue(context.Background())
		require.NoError(t, err)
		assert.Greater(t, params.Expire, received.Unix())
		assert.False(t, params.Expired(received))
	}
}

func TestSigner_Issue_UniqueTokens(t *testing.T) {
	t.Parallel()

	signer, err := ikauth.NewSigner(testPrivateKey)
	require.NoError(t, err)

	const calls = 500
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, calls)
		wg   sync.WaitGroup
	)

	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			params, err := signer.Issue(context.Background())
			assert.NoError(t, err)

			_, parseErr := uuid.Parse(params.Token)
			assert.NoError(t, parseErr)

			mu.Lock()
			seen[params.Token] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, calls)
}

func TestSigner_Issue_CanceledContext(t *testing.T) {
	t.Parallel()

	signer, err := ikauth.NewSigner(testPrivateKey)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = signer.Issue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSigner_Verify(t *testing.T) {
	t.Parallel()

	now := time.Now()
	signer, err := ikauth.NewSigner(testPrivateKey, ikauth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	valid, err := signer.Issue(context.Background())
	require.NoError(t, err)

	other, err := ikauth.NewSigner("private_someone-else")
	require.NoError(t, err)
	foreign, err := other.Issue(context.Background())
	require.NoError(t, err)

	farExpire := now.Add(3 * time.Hour).Unix()

	tests := []struct {
		name      string
		params    ikauth.AuthParams
		at        time.Time
		wantError string
	}{
		{
			name:   "valid",
			params: valid,
			at:     now,
		},
		{
			name:   "uppercase signature accepted",
			params: ikauth.AuthParams{Token: valid.Token, Expire: valid.Expire, Signature: strings.ToUpper(valid.Signature)},
			at:     now,
		},
		{
			name:      "missing token",
			params:    ikauth.AuthParams{Signature: valid.Signature, Expire: valid.Expire},
			at:        now,
			wantError: "missing token or signature",
		},
		{
			name:      "expired",
			params:    valid,
			at:        now.Add(31 * time.Minute),
			wantError: "parameters expired",
		},
		{
			name: "expiry too far out",
			params: ikauth.AuthParams{
				Token:     "t",
				Expire:    farExpire,
				Signature: referenceSignature(testPrivateKey, "t", farExpire),
			},
			at:        now,
			wantError: "expiry more than",
		},
		{
			name:      "tampered expire",
			params:    ikauth.AuthParams{Token: valid.Token, Expire: valid.Expire + 1, Signature: valid.Signature},
			at:        now,
			wantError: "signature mismatch",
		},
		{
			name:      "signed with another key",
			params:    foreign,
			at:        now,
			wantError: "signature mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := signer.Verify(tt.params, tt.at)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ikauth.ErrUnauthorized)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidatePublicKey(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ikauth.ValidatePublicKey("public_abc="))
	assert.ErrorIs(t, ikauth.ValidatePublicKey(""), ikauth.ErrConfiguration)
	assert.ErrorIs(t, ikauth.ValidatePublicKey("private_abc"), ikauth.ErrConfiguration)
}

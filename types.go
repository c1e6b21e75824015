package ikauth

import (
	"fmt"
	"time"
)

// AuthParams authorizes exactly one client-side upload attempt.
type AuthParams struct {
	Signature string `json:"signature"`
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
}

// ExpiresAt returns the expiry as a time.Time.
func (p AuthParams) ExpiresAt() time.Time {
	return time.Unix(p.Expire, 0)
}

// Expired reports whether the parameters are no longer valid at now.
func (p AuthParams) Expired(now time.Time) bool {
	return now.Unix() >= p.Expire
}

// PublicConfig holds the identifiers that are safe to hand to a browser page
// or a client process. It has no field for the private key.
type PublicConfig struct {
	URLEndpoint  string `json:"urlEndpoint"`
	PublicKey    string `json:"publicKey"`
	AuthEndpoint string `json:"authenticationEndpoint"`
}

type TransformationPosition string

const (
	PositionQuery TransformationPosition = "query"
	PositionPath  TransformationPosition = "path"
)

func (p TransformationPosition) IsValid() bool {
	switch p {
	case PositionQuery, PositionPath:
		return true
	default:
		return false
	}
}

func ParseTransformationPosition(s string) (TransformationPosition, error) {
	if s == "" {
		return PositionQuery, nil
	}
	pos := TransformationPosition(s)
	if !pos.IsValid() {
		return "", fmt.Errorf("invalid transformation position: %s (valid positions: query, path): %w", s, ErrInvalidInput)
	}
	return pos, nil
}

type Loading string

const (
	LoadingEager Loading = "eager"
	LoadingLazy  Loading = "lazy"
)

// LQIP configures the low-quality image placeholder.
// Zero Quality and Blur fall back to DefaultLQIPQuality and DefaultLQIPBlur.
type LQIP struct {
	Active  bool
	Quality int
	Blur    int
}

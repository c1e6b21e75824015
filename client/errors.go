package client

import (
	"errors"
	"fmt"
	"strconv"
)

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrPublicKeyRequired   = errors.New("public key is required")
	ErrURLEndpointRequired = errors.New("url endpoint is required")
)

// Errors for uploads.
var (
	// ErrAuthFetch matches every *AuthFetchError.
	ErrAuthFetch = errors.New("auth fetch failed")
	// ErrInvalidUpload is returned when a request fails validation. The vendor
	// is not contacted.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrUploadAborted is returned when an upload was canceled by Abort or its
	// parent context.
	ErrUploadAborted = errors.New("upload aborted")
	ErrNoFiles       = errors.New("no files provided")
)

// AuthFetchError reports a failed request to the authentication endpoint.
// StatusCode is zero when no response was received.
type AuthFetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *AuthFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch auth params from %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch auth params from %s: %v", e.Endpoint, e.Err)
}

func (e *AuthFetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAuthFetch.
func (e *AuthFetchError) Is(target error) bool {
	return target == ErrAuthFetch
}

// UploadError reports an upload that did not complete. A vendor rejection
// carries StatusCode and the vendor's message; transport failures and aborts
// carry only Err.
type UploadError struct {
	FileName   string
	StatusCode int
	Message    string
	Help       string
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		msg := "upload " + e.FileName + " rejected: " + strconv.Itoa(e.StatusCode)
		if e.Message != "" {
			msg += " - " + e.Message
		}
		return msg
	}
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Aborted reports whether the upload was canceled rather than rejected.
func (e *UploadError) Aborted() bool {
	return errors.Is(e.Err, ErrUploadAborted)
}

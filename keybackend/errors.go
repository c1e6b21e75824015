package keybackend

import "errors"

// ErrPrivateKeyMissing is returned when neither inline config nor the keys
// file provides a private key.
var ErrPrivateKeyMissing = errors.New("private key not configured")

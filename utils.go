package ikauth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidImagePath reports whether p can be appended to a URL endpoint.
// It checks that the path:
//   - is not empty, "." or "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" after the leading slash is removed
//   - does not contain "?" or "#" (those belong to the query and fragment)
//   - does not contain "\"
//   - is valid UTF-8
//   - does not contain null bytes, control characters or DEL
//
// A single leading slash is allowed; spaces are allowed and escaped later.
func IsValidImagePath(p string) bool {
	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." || p[0] == '/' {
		return false
	}

	if strings.HasSuffix(p, "/") {
		return false
	}

	if strings.Contains(p, "..") || strings.Contains(p, "//") {
		return false
	}

	if strings.ContainsAny(p, `\?#`) {
		return false
	}

	if !utf8.ValidString(p) {
		return false
	}

	for _, r := range p {
		if r == 0 || r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}

// IsValidFileName reports whether name is acceptable as an upload file name:
// non-empty, no path separators and no control characters or leading/trailing
// whitespace.
func IsValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}

// normalizeImagePath strips the leading slash and validates the result.
func normalizeImagePath(p string) (string, error) {
	if !IsValidImagePath(p) {
		return "", fmt.Errorf("invalid image path %q: %w", p, ErrInvalidInput)
	}
	return strings.TrimPrefix(p, "/"), nil
}

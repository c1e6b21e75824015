package keybackend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/ikauth/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyPairFromFile_ValidJSON(t *testing.T) {
	t.Parallel()

	content := `{"public_key": "public_abc=", "private_key": "private_xyz="}`
	path := writeTestFile(t, content)

	pair, err := keybackend.LoadKeyPairFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "public_abc=", pair.PublicKey)
	assert.Equal(t, "private_xyz=", pair.PrivateKey)
}

func TestLoadKeyPairFromFile_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	content := `{"public_key": " public_abc= ", "private_key": "private_xyz=\n"}`
	path := writeTestFile(t, content)

	pair, err := keybackend.LoadKeyPairFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "public_abc=", pair.PublicKey)
	assert.Equal(t, "private_xyz=", pair.PrivateKey)
}

func TestLoadKeyPairFromFile_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := keybackend.LoadKeyPairFromFile("/nonexistent/path/keys.json")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read keys file")
}

func TestLoadKeyPairFromFile_InvalidJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: "this is not json",
		},
		{
			name:    "array instead of object",
			content: `[{"public_key": "public_abc", "private_key": "private_xyz"}]`,
		},
		{
			name:    "malformed json",
			content: `{"public_key": "public_abc"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTestFile(t, tt.content)

			_, err := keybackend.LoadKeyPairFromFile(path)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "parse keys file")
		})
	}
}

func TestLoadKeyPairFromFile_ExtraFieldsIgnored(t *testing.T) {
	t.Parallel()

	content := `{
		"public_key": "public_abc",
		"private_key": "private_xyz",
		"url_endpoint": "https://ik.imagekit.io/demo",
		"another": 123
	}`
	path := writeTestFile(t, content)

	pair, err := keybackend.LoadKeyPairFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "private_xyz", pair.PrivateKey)
}

// writeTestFile is a test helper that creates a temporary file with the given content
func writeTestFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

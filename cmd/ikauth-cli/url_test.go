package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/ikauth"
	"github.com/sagarc03/ikauth/client"
)

func TestBuildImageOptions(t *testing.T) {
	opts, err := buildImageOptions("default-image.jpg", []string{"height-300,width-200", "rt-90"}, "path", nil)
	require.NoError(t, err)

	assert.Equal(t, "default-image.jpg", opts.Path)
	assert.Empty(t, opts.Src)
	assert.Equal(t, ikauth.PositionPath, opts.TransformationPosition)
	require.Len(t, opts.Transformation, 2)
	assert.Equal(t, "h-300,w-200:rt-90", opts.Transformation.String())
}

func TestBuildImageOptions_AbsoluteSrc(t *testing.T) {
	opts, err := buildImageOptions("https://ik.imagekit.io/demo/a.jpg", nil, "", map[string]string{"v": "1"})
	require.NoError(t, err)

	assert.Equal(t, "https://ik.imagekit.io/demo/a.jpg", opts.Src)
	assert.Empty(t, opts.Path)
	assert.Equal(t, ikauth.PositionQuery, opts.TransformationPosition)
	assert.Equal(t, map[string]string{"v": "1"}, opts.QueryParameters)
}

func TestBuildImageOptions_Invalid(t *testing.T) {
	_, err := buildImageOptions("a.jpg", nil, "header", nil)
	assert.ErrorIs(t, err, ikauth.ErrInvalidInput)

	_, err = buildImageOptions("a.jpg", []string{"h-300::rt-90"}, "", nil)
	assert.ErrorIs(t, err, ikauth.ErrInvalidInput)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.png"), []byte("b"), 0o600))

	t.Run("directory without recursive", func(t *testing.T) {
		_, err := collectFiles([]string{dir}, false)
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("recursive", func(t *testing.T) {
		paths, err := collectFiles([]string{dir}, true)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.png"),
			filepath.Join(dir, "nested", "b.png"),
		}, paths)
	})

	t.Run("plain file", func(t *testing.T) {
		paths, err := collectFiles([]string{filepath.Join(dir, "a.png")}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.png")}, paths)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := collectFiles([]string{filepath.Join(dir, "nope.png")}, false)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := collectFiles([]string{t.TempDir()}, true)
		assert.ErrorIs(t, err, client.ErrNoFiles)
	})
}

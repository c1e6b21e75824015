package ikauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/ikauth"
)

func TestPlaceholderTransformation(t *testing.T) {
	t.Parallel()

	base := ikauth.Transformation{{"height": 300, "width": 400}}

	got := ikauth.PlaceholderTransformation(base, ikauth.LQIP{Active: true})
	assert.Equal(t, "h-300,w-400:bl-6,q-20", got.String())
	assert.Len(t, base, 1, "input must not be modified")

	got = ikauth.PlaceholderTransformation(nil, ikauth.LQIP{Active: true, Quality: 10, Blur: 3})
	assert.Equal(t, "bl-3,q-10", got.String())
}

func TestImage_EagerWithoutPlaceholder(t *testing.T) {
	t.Parallel()

	img, err := ikauth.NewImage(newBuilder(t), ikauth.ImageOptions{Path: "default-image.jpg"}, ikauth.DisplayOptions{Width: "400"})
	require.NoError(t, err)

	assert.Equal(t, testEndpoint+"/default-image.jpg", img.CurrentSrc())
	assert.Empty(t, img.PlaceholderSrc())
	assert.True(t, img.FullRequested())

	html, err := img.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<img src="`+testEndpoint+`/default-image.jpg" width="400">`, string(html))
}

func TestImage_EagerPlaceholderSwapsOnLoad(t *testing.T) {
	t.Parallel()

	img, err := ikauth.NewImage(newBuilder(t),
		ikauth.ImageOptions{Path: "default-image.jpg"},
		ikauth.DisplayOptions{LQIP: ikauth.LQIP{Active: true, Quality: 20}},
	)
	require.NoError(t, err)

	assert.Equal(t, testEndpoint+"/default-image.jpg?tr=bl-6,q-20", img.CurrentSrc())
	assert.True(t, img.FullRequested(), "eager images preload the full variant")

	img.OriginalLoaded()
	assert.Equal(t, testEndpoint+"/default-image.jpg", img.CurrentSrc())
}

func TestImage_LazyPlaceholderDefersFullFetch(t *testing.T) {
	t.Parallel()

	img, err := ikauth.NewImage(newBuilder(t),
		ikauth.ImageOptions{
			Path:           "default-image.jpg",
			Transformation: ikauth.Transformation{{"height": 300, "width": 400}},
		},
		ikauth.DisplayOptions{
			LQIP:    ikauth.LQIP{Active: true},
			Loading: ikauth.LoadingLazy,
			Height:  "300",
			Width:   "400",
		},
	)
	require.NoError(t, err)

	placeholder := testEndpoint + "/default-image.jpg?tr=h-300,w-400:bl-6,q-20"
	full := testEndpoint + "/default-image.jpg?tr=h-300,w-400"

	assert.Equal(t, placeholder, img.CurrentSrc())
	assert.False(t, img.FullRequested())

	html, err := img.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), `loading="lazy"`)
	assert.Contains(t, string(html), `data-src="`+full+`"`)

	// A preload finishing early does not matter for lazy images.
	img.OriginalLoaded()
	assert.Equal(t, placeholder, img.CurrentSrc())

	img.NearViewport()
	assert.True(t, img.FullRequested())
	assert.Equal(t, full, img.CurrentSrc())

	html, err = img.HTML()
	require.NoError(t, err)
	assert.NotContains(t, string(html), "data-src")
}

func TestImage_LazyWithoutPlaceholder(t *testing.T) {
	t.Parallel()

	img, err := ikauth.NewImage(newBuilder(t),
		ikauth.ImageOptions{Path: "default-image.jpg"},
		ikauth.DisplayOptions{Loading: ikauth.LoadingLazy},
	)
	require.NoError(t, err)

	assert.Empty(t, img.CurrentSrc())
	img.NearViewport()
	assert.Equal(t, img.FullSrc(), img.CurrentSrc())
}

func TestNewImage_Errors(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	_, err := ikauth.NewImage(b, ikauth.ImageOptions{Path: "a.jpg"}, ikauth.DisplayOptions{Loading: "auto"})
	assert.ErrorIs(t, err, ikauth.ErrInvalidInput)

	_, err = ikauth.NewImage(b, ikauth.ImageOptions{}, ikauth.DisplayOptions{})
	assert.ErrorIs(t, err, ikauth.ErrInvalidInput)
}

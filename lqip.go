package ikauth

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	DefaultLQIPQuality = 20
	DefaultLQIPBlur    = 6
)

// DisplayOptions controls how an image element loads.
type DisplayOptions struct {
	LQIP    LQIP
	Loading Loading
	Alt     string
	Width   string
	Height  string
}

// Image tracks which URL an <img> element should currently request.
//
// With a placeholder active the element starts on the degraded variant. An
// eager image preloads the full variant right away and swaps once
// OriginalLoaded is called. A lazy image requests nothing at full quality until
// NearViewport is called.
//
// Image is not safe for concurrent use.
type Image struct {
	fullSrc        string
	placeholderSrc string
	display        DisplayOptions

	intersected    bool
	originalLoaded bool
}

// NewImage resolves the full and placeholder URLs for opts.
func NewImage(b *URLBuilder, opts ImageOptions, display DisplayOptions) (*Image, error) {
	if display.Loading == "" {
		display.Loading = LoadingEager
	}
	if display.Loading != LoadingEager && display.Loading != LoadingLazy {
		return nil, fmt.Errorf("invalid loading mode %q: %w", display.Loading, ErrInvalidInput)
	}

	fullSrc, err := b.URL(opts)
	if err != nil {
		return nil, err
	}

	img := &Image{
		fullSrc: fullSrc,
		display: display,
	}

	if display.LQIP.Active {
		placeholderOpts := opts
		placeholderOpts.Transformation = PlaceholderTransformation(opts.Transformation, display.LQIP)
		img.placeholderSrc, err = b.URL(placeholderOpts)
		if err != nil {
			return nil, err
		}
	}

	return img, nil
}

// PlaceholderTransformation returns t with a degraded quality and blur step
// chained at the end. t itself is not modified.
func PlaceholderTransformation(t Transformation, lqip LQIP) Transformation {
	quality := lqip.Quality
	if quality <= 0 {
		quality = DefaultLQIPQuality
	}
	blur := lqip.Blur
	if blur <= 0 {
		blur = DefaultLQIPBlur
	}

	out := make(Transformation, 0, len(t)+1)
	out = append(out, t...)
	return append(out, Directives{"quality": quality, "blur": blur})
}

// FullSrc returns the full quality URL.
func (i *Image) FullSrc() string {
	return i.fullSrc
}

// PlaceholderSrc returns the degraded URL, or "" when no placeholder is active.
func (i *Image) PlaceholderSrc() string {
	return i.placeholderSrc
}

// Lazy reports whether the full variant waits for NearViewport.
func (i *Image) Lazy() bool {
	return i.display.Loading == LoadingLazy
}

// NearViewport records that the element scrolled close to the viewport.
func (i *Image) NearViewport() {
	i.intersected = true
}

// OriginalLoaded records that the preloaded full variant finished loading.
func (i *Image) OriginalLoaded() {
	i.originalLoaded = true
}

// FullRequested reports whether the full quality variant has been requested.
func (i *Image) FullRequested() bool {
	if i.Lazy() {
		return i.intersected
	}
	return true
}

// CurrentSrc returns the URL the element should display right now.
// It is "" for a lazy image without a placeholder that has not been reached.
func (i *Image) CurrentSrc() string {
	lqip := i.display.LQIP.Active

	if i.Lazy() {
		switch {
		case i.intersected:
			return i.fullSrc
		case lqip:
			return i.placeholderSrc
		default:
			return ""
		}
	}

	if lqip && !i.originalLoaded {
		return i.placeholderSrc
	}
	return i.fullSrc
}

var imgTemplate = template.Must(template.New("img").Parse(
	`<img src="{{.Src}}"{{if .Alt}} alt="{{.Alt}}"{{end}}` +
		`{{if .Width}} width="{{.Width}}"{{end}}{{if .Height}} height="{{.Height}}"{{end}}` +
		`{{if .Lazy}} loading="lazy"{{end}}{{if .Full}} data-src="{{.Full}}"{{end}}>`,
))

// HTML renders the element in its current state. While the full variant is
// still pending its URL is carried in data-src.
func (i *Image) HTML() (template.HTML, error) {
	current := i.CurrentSrc()

	data := struct {
		Src, Alt, Width, Height, Full string
		Lazy                          bool
	}{
		Src:    current,
		Alt:    i.display.Alt,
		Width:  i.display.Width,
		Height: i.display.Height,
		Lazy:   i.Lazy(),
	}
	if current != i.fullSrc {
		data.Full = i.fullSrc
	}

	var buf bytes.Buffer
	if err := imgTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render image: %w", err)
	}
	//nolint:gosec // output of html/template is already escaped
	return template.HTML(buf.String()), nil
}

package http

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sagarc03/ikauth"
)

type showcaseImage struct {
	Options ikauth.ImageOptions
	Display ikauth.DisplayOptions
}

type showcaseSection struct {
	Heading string
	Note    string
	Images  []showcaseImage
}

var showcaseSections = []showcaseSection{
	{
		Heading: "Fetching uploaded file",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{Path: "/test-upload_u_pUzVvXL.png"}, Display: ikauth.DisplayOptions{Width: "200"}},
		},
	},
	{
		Heading: "Loading image from relative path",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{Path: "default-image.jpg"}, Display: ikauth.DisplayOptions{Width: "400"}},
		},
	},
	{
		Heading: "Loading image from an absolute path",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{Src: "https://ik.imagekit.io/demo/default-image.jpg"}, Display: ikauth.DisplayOptions{Width: "400"}},
		},
	},
	{
		Heading: "Resize the default image to 200px height and width",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"height": 200, "width": 200}},
			}},
		},
	},
	{
		Heading: "Quality",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"quality": 100}},
			}},
		},
	},
	{
		Heading: "Crop, crop modes and focus",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"height": 300, "width": 200, "cropMode": "extract"}},
			}},
		},
	},
	{
		Heading: "Chained transformation",
		Note:    "Resize alone, resize then rotate, rotate then resize.",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"height": 300, "width": 200}},
			}},
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"height": 300, "width": 200}, {"rt": 90}},
			}},
			{Options: ikauth.ImageOptions{
				Path:           "default-image.jpg",
				Transformation: ikauth.Transformation{{"rt": 90}, {"height": 300, "width": 200}},
			}},
		},
	},
	{
		Heading: "Adding overlays to image",
		Images: []showcaseImage{
			{Options: ikauth.ImageOptions{
				Path: "default-image.jpg",
				Transformation: ikauth.Transformation{{
					"height":              300,
					"width":               300,
					"overlayText":         "ImageKit",
					"overlayTextFontSize": 50,
					"overlayTextColor":    "0651D5",
				}},
			}},
		},
	},
	{
		Heading: "Lazy-loading images",
		Note:    "Set the height and width of the element to avoid layout shift.",
		Images: []showcaseImage{
			{
				Options: ikauth.ImageOptions{
					Path:           "default-image.jpg",
					Transformation: ikauth.Transformation{{"height": 300, "width": 400}},
				},
				Display: ikauth.DisplayOptions{Loading: ikauth.LoadingLazy, Height: "300", Width: "400"},
			},
		},
	},
	{
		Heading: "Blurred image placeholder",
		Note:    "A blurred low quality placeholder is shown while the original loads.",
		Images: []showcaseImage{
			{
				Options: ikauth.ImageOptions{Path: "default-image.jpg"},
				Display: ikauth.DisplayOptions{LQIP: ikauth.LQIP{Active: true, Quality: 20}, Width: "400"},
			},
		},
	},
	{
		Heading: "Combining lazy loading with low-quality placeholders",
		Note:    "Only the placeholder loads until the image scrolls near the viewport.",
		Images: []showcaseImage{
			{
				Options: ikauth.ImageOptions{
					Path:           "default-image.jpg",
					Transformation: ikauth.Transformation{{"height": 300, "width": 400}},
				},
				Display: ikauth.DisplayOptions{
					LQIP:    ikauth.LQIP{Active: true},
					Loading: ikauth.LoadingLazy,
					Height:  "300",
					Width:   "400",
				},
			},
		},
	},
}

var showcaseTemplate = template.Must(template.New("showcase").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ImageKit quick start</title>
</head>
<body data-url-endpoint="{{.Public.URLEndpoint}}" data-public-key="{{.Public.PublicKey}}" data-auth-endpoint="{{.Public.AuthEndpoint}}">
<h1>ImageKit quick start</h1>
<p>The authentication endpoint answers GET requests with a JSON object holding signature, token and expire.</p>
{{range .Sections}}<section>
<h2>{{.Heading}}</h2>
{{if .Note}}<p>{{.Note}}</p>
{{end}}{{range .Images}}{{.}}
{{end}}</section>
{{end}}<script>
(function () {
  var swap = function (img) { img.src = img.dataset.src; delete img.dataset.src; };
  var pending = document.querySelectorAll("img[data-src]");
  var observer = "IntersectionObserver" in window ? new IntersectionObserver(function (entries) {
    entries.forEach(function (e) { if (e.isIntersecting) { observer.unobserve(e.target); swap(e.target); } });
  }, { rootMargin: "1250px" }) : null;
  pending.forEach(function (img) {
    if (img.loading === "lazy" && observer) { observer.observe(img); return; }
    var full = new Image();
    full.onload = function () { swap(img); };
    full.src = img.dataset.src;
  });
})();
</script>
</body>
</html>
`))

type renderedSection struct {
	Heading string
	Note    string
	Images  []template.HTML
}

type showcase struct {
	public  ikauth.PublicConfig
	builder *ikauth.URLBuilder
}

func newShowcase(public ikauth.PublicConfig) (*showcase, error) {
	builder, err := ikauth.NewURLBuilder(public.URLEndpoint)
	if err != nil {
		return nil, fmt.Errorf("showcase: %w", err)
	}
	return &showcase{public: public, builder: builder}, nil
}

// render builds fresh Image elements per call so no state is shared between
// requests.
func (s *showcase) render() ([]byte, error) {
	sections := make([]renderedSection, 0, len(showcaseSections))
	for _, sec := range showcaseSections {
		rs := renderedSection{Heading: sec.Heading, Note: sec.Note}
		for _, si := range sec.Images {
			img, err := ikauth.NewImage(s.builder, si.Options, si.Display)
			if err != nil {
				return nil, fmt.Errorf("showcase %q: %w", sec.Heading, err)
			}
			html, err := img.HTML()
			if err != nil {
				return nil, err
			}
			rs.Images = append(rs.Images, html)
		}
		sections = append(sections, rs)
	}

	var buf bytes.Buffer
	err := showcaseTemplate.Execute(&buf, struct {
		Public   ikauth.PublicConfig
		Sections []renderedSection
	}{
		Public:   s.public,
		Sections: sections,
	})
	if err != nil {
		return nil, fmt.Errorf("render showcase: %w", err)
	}
	return buf.Bytes(), nil
}

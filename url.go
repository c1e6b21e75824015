package ikauth

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// TransformationParam is the query parameter carrying the directives.
	TransformationParam = "tr"

	// ChainSeparator joins directive groups; each group is applied to the
	// output of the previous one.
	ChainSeparator = ":"
	// DirectiveSeparator joins directives inside one group.
	DirectiveSeparator = ","
	// KeyOnlyValue renders a directive as its bare key (e.g. "e-grayscale").
	KeyOnlyValue = "-"
)

// Directives is one transformation step: named parameters applied together.
type Directives map[string]any

// Transformation is an ordered chain of directive groups. Order matters:
// {rt: 90} then {height: 300, width: 200} differs from the reverse.
type Transformation []Directives

// transformKeys maps the long parameter names accepted by the vendor SDKs to
// URL keys. Keys not listed here are passed through unchanged.
var transformKeys = map[string]string{
	"height":                    "h",
	"width":                     "w",
	"aspectRatio":               "ar",
	"quality":                   "q",
	"crop":                      "c",
	"cropMode":                  "cm",
	"x":                         "x",
	"y":                         "y",
	"focus":                     "fo",
	"format":                    "f",
	"radius":                    "r",
	"background":                "bg",
	"border":                    "b",
	"rotation":                  "rt",
	"rotate":                    "rt",
	"blur":                      "bl",
	"named":                     "n",
	"progressive":               "pr",
	"lossless":                  "lo",
	"trim":                      "t",
	"metadata":                  "md",
	"colorProfile":              "cp",
	"defaultImage":              "di",
	"dpr":                       "dpr",
	"effectSharpen":             "e-sharpen",
	"effectUSM":                 "e-usm",
	"effectContrast":            "e-contrast",
	"effectGray":                "e-grayscale",
	"original":                  "orig",
	"overlayX":                  "ox",
	"overlayY":                  "oy",
	"overlayFocus":              "ofo",
	"overlayHeight":             "oh",
	"overlayWidth":              "ow",
	"overlayImage":              "oi",
	"overlayImageTrim":          "oit",
	"overlayImageAspectRatio":   "oiar",
	"overlayImageBackground":    "oibg",
	"overlayImageBorder":        "oib",
	"overlayImageDPR":           "oidpr",
	"overlayImageQuality":       "oiq",
	"overlayImageCropping":      "oic",
	"overlayText":               "ot",
	"overlayTextFontSize":       "ots",
	"overlayTextFontFamily":     "otf",
	"overlayTextColor":          "otc",
	"overlayTextTypography":     "ott",
	"overlayTextEncoded":        "ote",
	"overlayTextWidth":          "otw",
	"overlayTextBackground":     "otbg",
	"overlayTextPadding":        "otp",
	"overlayTextInnerAlignment": "otia",
	"overlayAlpha":              "oa",
	"overlayBackground":         "obg",
	"overlayRadius":             "or",
}

// TransformKey returns the URL key for a parameter name.
func TransformKey(name string) string {
	if k, ok := transformKeys[name]; ok {
		return k
	}
	return name
}

// String renders the group as comma separated key-value directives, sorted
// by URL key so the output is deterministic. Nil and empty values are skipped.
func (d Directives) String() string {
	parts := make([]string, 0, len(d))
	for name, value := range d {
		key := TransformKey(name)
		if key == "" {
			continue
		}
		v, ok := formatDirectiveValue(value)
		if !ok {
			continue
		}
		if v == KeyOnlyValue {
			parts = append(parts, key)
		} else {
			parts = append(parts, key+"-"+v)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, DirectiveSeparator)
}

// String renders the whole chain, groups joined with ":" in order.
// Groups that render empty are dropped.
func (t Transformation) String() string {
	groups := make([]string, 0, len(t))
	for _, d := range t {
		if s := d.String(); s != "" {
			groups = append(groups, s)
		}
	}
	return strings.Join(groups, ChainSeparator)
}

// ParseTransformation parses a rendered chain such as "h-300,w-200:rt-90" back
// into groups keyed by URL key. Bare keys get KeyOnlyValue.
func ParseTransformation(s string) (Transformation, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var t Transformation
	for _, group := range strings.Split(s, ChainSeparator) {
		if group == "" {
			return nil, fmt.Errorf("empty transformation group in %q: %w", s, ErrInvalidInput)
		}
		d := Directives{}
		for _, directive := range strings.Split(group, DirectiveSeparator) {
			key, value, found := cutDirective(directive)
			if key == "" {
				return nil, fmt.Errorf("invalid directive %q: %w", directive, ErrInvalidInput)
			}
			if !found || value == "" {
				value = KeyOnlyValue
			}
			d[key] = value
		}
		t = append(t, d)
	}
	return t, nil
}

// cutDirective splits "key-value", keeping effect keys such as "e-sharpen"
// intact.
func cutDirective(directive string) (key, value string, found bool) {
	if rest, ok := strings.CutPrefix(directive, "e-"); ok {
		name, v, f := strings.Cut(rest, "-")
		return "e-" + name, v, f
	}
	return strings.Cut(directive, "-")
}

func formatDirectiveValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case bool:
		if !val {
			return "", false
		}
		return KeyOnlyValue, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	default:
		return fmt.Sprint(val), true
	}
}

// ImageOptions describes one image reference.
type ImageOptions struct {
	// Path is relative to the URL endpoint. Ignored when Src is set.
	Path string
	// Src is an absolute image URL. Transformations always go to the query.
	Src string

	Transformation         Transformation
	TransformationPosition TransformationPosition
	QueryParameters        map[string]string
}

// URLBuilder composes delivery URLs for one URL endpoint.
type URLBuilder struct {
	endpoint string
}

// NewURLBuilder validates the endpoint (absolute http or https URL) and
// returns a builder for it.
func NewURLBuilder(urlEndpoint string) (*URLBuilder, error) {
	u, err := url.Parse(urlEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse url endpoint: %w", ErrConfiguration)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("url endpoint must be an absolute http(s) URL: %w", ErrConfiguration)
	}
	return &URLBuilder{endpoint: strings.TrimSuffix(urlEndpoint, "/")}, nil
}

// Endpoint returns the normalized URL endpoint.
func (b *URLBuilder) Endpoint() string {
	return b.endpoint
}

// URL returns the delivery URL for opts.
//
// Query position (default): <endpoint>/<path>?tr=<chain>
// Path position:            <endpoint>/tr:<chain>/<path>
func (b *URLBuilder) URL(opts ImageOptions) (string, error) {
	pos, err := ParseTransformationPosition(string(opts.TransformationPosition))
	if err != nil {
		return "", err
	}

	chain := opts.Transformation.String()

	var base string
	switch {
	case opts.Src != "":
		u, parseErr := url.Parse(opts.Src)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("src must be an absolute URL: %w", ErrInvalidInput)
		}
		base = opts.Src
		pos = PositionQuery
	case opts.Path != "":
		p, pathErr := normalizeImagePath(opts.Path)
		if pathErr != nil {
			return "", pathErr
		}
		if pos == PositionPath && chain != "" {
			base = b.endpoint + "/" + TransformationParam + ChainSeparator + escapePathChain(chain) + "/" + escapePath(p)
			chain = ""
		} else {
			base = b.endpoint + "/" + escapePath(p)
		}
	default:
		return "", fmt.Errorf("path or src is required: %w", ErrInvalidInput)
	}

	query := buildQuery(opts.QueryParameters, chain)
	if query == "" {
		return base, nil
	}
	if strings.Contains(base, "?") {
		return base + "&" + query, nil
	}
	return base + "?" + query, nil
}

func buildQuery(params map[string]string, chain string) string {
	values := url.Values{}
	for k, v := range params {
		if k == TransformationParam {
			continue
		}
		values.Set(k, v)
	}
	query := values.Encode()

	if chain == "" {
		return query
	}
	tr := TransformationParam + "=" + escapeChain(chain)
	if query == "" {
		return tr
	}
	return query + "&" + tr
}

// chainUnescaper keeps the chain separators readable in the URL.
var chainUnescaper = strings.NewReplacer("%2C", ",", "%3A", ":")

func escapeChain(chain string) string {
	return chainUnescaper.Replace(url.QueryEscape(chain))
}

func escapePathChain(chain string) string {
	return chainUnescaper.Replace(url.PathEscape(chain))
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

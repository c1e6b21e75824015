package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter formats results for output.
type Formatter interface {
	FormatAuth(w io.Writer, result AuthResult) error
	FormatUpload(w io.Writer, results []FileUploadResult) error
	FormatURL(w io.Writer, url string) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet, Now: time.Now}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
	Now   func() time.Time
}

// FormatAuth formats fetched parameters as human-readable text.
func (f *HumanFormatter) FormatAuth(w io.Writer, result AuthResult) error {
	p := result.Params
	if f.Quiet {
		_, _ = fmt.Fprintln(w, p.Token)
		return nil
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	_, _ = fmt.Fprintf(w, "Endpoint:  %s\n", result.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:     %s\n", p.Token)
	_, _ = fmt.Fprintf(w, "Expire:    %d (%s, in %s)\n", p.Expire,
		p.ExpiresAt().UTC().Format(time.RFC3339),
		p.ExpiresAt().Sub(now()).Truncate(time.Second))
	_, _ = fmt.Fprintf(w, "Signature: %s\n", p.Signature)
	return nil
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []FileUploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Uploaded: %s -> %s (%s)\n", r.LocalPath, r.Response.FilePath, formatSize(r.Size))
			_, _ = fmt.Fprintf(w, "  URL: %s\n", r.Response.URL)
			if len(r.Response.Tags) > 0 {
				_, _ = fmt.Fprintf(w, "  Tags: %s\n", strings.Join(r.Response.Tags, ", "))
			}
		}
	}
	return nil
}

// FormatURL writes the URL on its own line.
func (f *HumanFormatter) FormatURL(w io.Writer, url string) error {
	_, _ = fmt.Fprintln(w, url)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4      // "NAME"
	maxEndpointLen := 12 // "URL ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, len(profiles[i].URLEndpoint))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "URL ENDPOINT", "AUTH ENDPOINT")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.URLEndpoint, maxEndpointLen),
			p.AuthEndpoint,
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:          %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "URL Endpoint:  %s\n", orNotSet(profile.URLEndpoint))
	_, _ = fmt.Fprintf(w, "Public Key:    %s\n", orNotSet(profile.PublicKey))
	_, _ = fmt.Fprintf(w, "Auth Endpoint: %s\n", orNotSet(profile.AuthEndpoint))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatAuth writes exactly the three parameters the token service returned.
func (f *JSONFormatter) FormatAuth(w io.Writer, result AuthResult) error {
	return writeJSON(w, result.Params)
}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []FileUploadResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		LocalPath string          `json:"local_path"`
		Size      int64           `json:"size_bytes,omitempty"`
		File      *UploadResponse `json:"file,omitempty"`
		Error     string          `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{LocalPath: r.LocalPath}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.Size = r.Size
			jr.File = r.Response
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatURL formats a URL as JSON.
func (f *JSONFormatter) FormatURL(w io.Writer, url string) error {
	return writeJSON(w, struct {
		URL string `json:"url"`
	}{URL: url})
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name         string `json:"name"`
	URLEndpoint  string `json:"url_endpoint"`
	PublicKey    string `json:"public_key"`
	AuthEndpoint string `json:"auth_endpoint"`
	Default      bool   `json:"default"`
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:         p.Name,
			URLEndpoint:  p.URLEndpoint,
			PublicKey:    p.PublicKey,
			AuthEndpoint: p.AuthEndpoint,
			Default:      p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	return writeJSON(w, jsonProfile{
		Name:         profile.Name,
		URLEndpoint:  profile.URLEndpoint,
		PublicKey:    profile.PublicKey,
		AuthEndpoint: profile.AuthEndpoint,
		Default:      isDefault,
	})
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/sagarc03/ikauth"
)

// eventBuffer leaves room for the start event, a few progress events and the
// terminal event, so the upload goroutine never waits on a slow reader.
const eventBuffer = 16

// Upload is one in-flight transfer. Events delivers EventStart, any number of
// EventProgress, then exactly one terminal event before it is closed.
type Upload struct {
	mu     sync.Mutex
	closed bool
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Events returns the event channel. Progress events are dropped when the
// channel is full; start and terminal events are always delivered.
func (u *Upload) Events() <-chan Event {
	return u.events
}

// Abort cancels this upload only. Already issued tokens are left to expire.
func (u *Upload) Abort() {
	u.cancel()
}

// Wait blocks until the upload finishes and returns its result.
func (u *Upload) Wait() Result {
	<-u.done
	return u.result
}

// Done is closed when the result is available.
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Start validates req, fetches a fresh token and sends the file in the
// background. If the token cannot be fetched the vendor is never contacted.
func (c *Client) Start(ctx context.Context, req UploadRequest) *Upload {
	ctx, cancel := context.WithCancel(ctx)
	u := &Upload{
		events: make(chan Event, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		u.events <- Event{Type: EventStart}

		resp, err := c.upload(ctx, req, u.progress)
		if err != nil {
			u.finish(Result{Err: err}, Event{Type: EventError, Err: err})
		} else {
			u.finish(Result{Response: resp}, Event{Type: EventSuccess, Response: resp})
		}
	}()

	return u
}

// progress may be called from the transport's goroutine, even after the
// response arrived. It keeps one slot free for the terminal event.
func (u *Upload) progress(loaded, total int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed || len(u.events) >= cap(u.events)-1 {
		return
	}
	u.events <- Event{Type: EventProgress, Loaded: loaded, Total: total}
}

func (u *Upload) finish(res Result, ev Event) {
	u.mu.Lock()
	u.result = res
	u.events <- ev
	u.closed = true
	close(u.events)
	u.mu.Unlock()

	close(u.done)
}

func (c *Client) upload(ctx context.Context, req UploadRequest, onProgress func(loaded, total int64)) (*UploadResponse, error) {
	name := req.Options.FileName

	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	params, err := c.tokens(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &UploadError{FileName: name, Err: fmt.Errorf("%w: %w", ErrUploadAborted, ctx.Err())}
		}
		return nil, err
	}

	body, contentType, err := c.encodeForm(req, params)
	if err != nil {
		return nil, &UploadError{FileName: name, Err: err}
	}

	total := int64(body.Len())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadEndpoint,
		&progressReader{r: body, total: total, report: onProgress})
	if err != nil {
		return nil, &UploadError{FileName: name, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.ContentLength = total

	slog.Debug("uploading file", "file", name, "bytes", len(req.File), "endpoint", c.uploadEndpoint)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &UploadError{FileName: name, Err: fmt.Errorf("%w: %w", ErrUploadAborted, ctx.Err())}
		}
		return nil, &UploadError{FileName: name, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{FileName: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseVendorError(name, resp.StatusCode, respBody)
	}

	var out UploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &UploadError{FileName: name, Err: fmt.Errorf("parse response: %w", err)}
	}

	return &out, nil
}

func (c *Client) validateRequest(req UploadRequest) error {
	if c.config.PublicKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUpload, ErrPublicKeyRequired)
	}
	if err := c.validate.Struct(req.Options); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	if !ikauth.IsValidFileName(req.Options.FileName) {
		return fmt.Errorf("%w: file name %q", ErrInvalidUpload, req.Options.FileName)
	}
	if req.Validate != nil && !req.Validate(req.Options.FileName, int64(len(req.File))) {
		return fmt.Errorf("%w: %s rejected by validator", ErrInvalidUpload, req.Options.FileName)
	}
	return nil
}

// encodeForm builds the multipart body in memory so its length is known for
// progress reporting.
func (c *Client) encodeForm(req UploadRequest, params ikauth.AuthParams) (*bytes.Buffer, string, error) {
	opts := req.Options
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := []struct{ key, value string }{
		{"fileName", opts.FileName},
		{"publicKey", c.config.PublicKey},
		{"signature", params.Signature},
		{"token", params.Token},
		{"expire", strconv.FormatInt(params.Expire, 10)},
		{"folder", opts.Folder},
		{"tags", strings.Join(opts.Tags, ",")},
		{"customCoordinates", opts.CustomCoordinates},
		{"responseFields", strings.Join(opts.ResponseFields, ",")},
		{"webhookUrl", opts.WebhookURL},
		{"useUniqueFileName", formatBool(opts.UseUniqueFileName)},
		{"isPrivateFile", formatBool(opts.IsPrivateFile)},
		{"overwriteFile", formatBool(opts.OverwriteFile)},
		{"overwriteAITags", formatBool(opts.OverwriteAITags)},
		{"overwriteTags", formatBool(opts.OverwriteTags)},
		{"overwriteCustomMetadata", formatBool(opts.OverwriteCustomMetadata)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.key, err)
		}
	}

	if len(opts.Extensions) > 0 {
		if err := writeJSONField(mw, "extensions", opts.Extensions); err != nil {
			return nil, "", err
		}
	}
	if len(opts.CustomMetadata) > 0 {
		if err := writeJSONField(mw, "customMetadata", opts.CustomMetadata); err != nil {
			return nil, "", err
		}
	}

	part, err := mw.CreateFormFile("file", opts.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(req.File); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return buf, mw.FormDataContentType(), nil
}

func writeJSONField(mw *multipart.Writer, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := mw.WriteField(key, string(data)); err != nil {
		return fmt.Errorf("write field %s: %w", key, err)
	}
	return nil
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// parseVendorError extracts the vendor's message from an error response.
func parseVendorError(name string, statusCode int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Help    string `json:"help"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		payload.Message = strings.TrimSpace(string(body))
	}

	return &UploadError{
		FileName:   name,
		StatusCode: statusCode,
		Message:    payload.Message,
		Help:       payload.Help,
		Err:        errors.New(http.StatusText(statusCode)),
	}
}

// progressReader reports cumulative bytes read.
type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(loaded, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.report != nil {
			p.report(p.read, p.total)
		}
	}
	return n, err
}

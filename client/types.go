package client

import (
	"github.com/sagarc03/ikauth"
)

// DefaultUploadEndpoint is the vendor endpoint that receives direct uploads.
const DefaultUploadEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

// UploadOptions mirrors the vendor's upload parameters. Nil pointers leave the
// vendor default in place.
type UploadOptions struct {
	FileName                string         `validate:"required"`
	Folder                  string         `validate:"omitempty,startswith=/"`
	Tags                    []string       `validate:"dive,required,excludesall=0x2C"`
	CustomCoordinates       string
	IsPrivateFile           *bool          `validate:"-"`
	UseUniqueFileName       *bool          `validate:"-"`
	ResponseFields          []string       `validate:"dive,required"`
	Extensions              []Extension    `validate:"dive"`
	WebhookURL              string         `validate:"omitempty,url"`
	OverwriteFile           *bool          `validate:"-"`
	OverwriteAITags         *bool          `validate:"-"`
	OverwriteTags           *bool          `validate:"-"`
	OverwriteCustomMetadata *bool          `validate:"-"`
	CustomMetadata          map[string]any `validate:"-"`
}

// Extension requests post-processing such as background removal.
type Extension struct {
	Name    string         `json:"name" validate:"required"`
	Options map[string]any `json:"options,omitempty"`
}

// FileValidator decides whether a file may be uploaded. It runs before any
// network call.
type FileValidator func(name string, size int64) bool

// UploadRequest describes one file to send.
type UploadRequest struct {
	File     []byte
	Options  UploadOptions
	Validate FileValidator
}

// UploadResponse is the vendor's description of a stored file.
type UploadResponse struct {
	FileID            string            `json:"fileId"`
	Name              string            `json:"name"`
	URL               string            `json:"url"`
	ThumbnailURL      string            `json:"thumbnailUrl,omitempty"`
	FilePath          string            `json:"filePath"`
	FileType          string            `json:"fileType,omitempty"`
	Size              int64             `json:"size"`
	Height            int               `json:"height,omitempty"`
	Width             int               `json:"width,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	IsPrivateFile     bool              `json:"isPrivateFile"`
	CustomCoordinates *string           `json:"customCoordinates,omitempty"`
	CustomMetadata    map[string]any    `json:"customMetadata,omitempty"`
	ExtensionStatus   map[string]string `json:"extensionStatus,omitempty"`
}

// Result is the outcome of one upload: exactly one of Response and Err is set.
type Result struct {
	Response *UploadResponse
	Err      error
}

// EventType identifies an upload lifecycle event.
type EventType int

const (
	EventStart EventType = iota + 1
	EventProgress
	EventSuccess
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventProgress:
		return "progress"
	case EventSuccess:
		return "success"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow.
func (t EventType) Terminal() bool {
	return t == EventSuccess || t == EventError
}

// Event is emitted on an Upload's channel. Loaded and Total are set on
// progress events; Response on success; Err on error.
type Event struct {
	Type     EventType
	Loaded   int64
	Total    int64
	Response *UploadResponse
	Err      error
}

// FileUploadResult is the outcome of uploading one local file.
type FileUploadResult struct {
	LocalPath string
	Size      int64
	Response  *UploadResponse
	Err       error
}

// AuthResult pairs fetched parameters with the endpoint they came from.
type AuthResult struct {
	Endpoint string
	Params   ikauth.AuthParams
}

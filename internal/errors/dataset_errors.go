package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Dataset-specific errors (using errors package for sentinel errors)
var (
	ErrDatasetNotLoaded  = errors.New("dataset not loaded")
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrUnknownSortColumn = errors.New("unknown sort column")
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status

	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	for k, v := range pd.Extensions {
		data[k] = v
	}

	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// MapDatasetError maps domain errors to HTTP problem details
func MapDatasetError(err error, traceID string) render.Renderer {
	instance := fmt.Sprintf("/api/segments#trace-%s", traceID)

	// Check if it's an APIError from errors.go
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode == "DATASET_NOT_FOUND" {
			return NewProblemDetails(
				http.StatusNotFound,
				"/errors/dataset-not-found",
				"Dataset Not Found",
				"The configured dataset file could not be read. Upload a dataset or fix the configured path.",
				instance,
			).WithExtension("trace_id", traceID).
				WithExtension("error_code", "DATASET_NOT_FOUND")
		}
	}

	switch {
	case errors.Is(err, ErrDatasetNotLoaded):
		return NewProblemDetails(
			http.StatusNotFound,
			"/errors/dataset-not-loaded",
			"Dataset Not Loaded",
			"No dataset is available. Upload a dataset file or configure a default path.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATASET_NOT_LOADED")

	case errors.Is(err, ErrEmptyDataset):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			"/errors/dataset-empty",
			"Dataset Empty",
			"The dataset contains no records matching the request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATASET_EMPTY")

	case errors.Is(err, ErrUnsupportedFormat):
		return NewProblemDetails(
			http.StatusBadRequest,
			"/errors/unsupported-format",
			"Unsupported Format",
			"Only CSV and XLSX dataset files are supported.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "UNSUPPORTED_FORMAT")

	case errors.Is(err, ErrUploadTooLarge):
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			"/errors/upload-too-large",
			"Upload Too Large",
			"The uploaded dataset exceeds the maximum allowed size.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "UPLOAD_TOO_LARGE")

	case errors.Is(err, ErrUnknownSortColumn):
		return NewProblemDetails(
			http.StatusBadRequest,
			"/errors/unknown-sort-column",
			"Unknown Sort Column",
			"The requested sort column does not exist in the dataset view.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "UNKNOWN_SORT_COLUMN")

	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			"/errors/internal-error",
			"Internal Server Error",
			"An unexpected error occurred while processing your request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}
}

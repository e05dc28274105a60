package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "icpcli/internal/errors"
	"icpcli/internal/exporter"
	customMiddleware "icpcli/internal/middleware"
	"icpcli/pkg/contracts/domain"
)

// SegmentsHandler handles dataset exploration HTTP requests with RFC 7807
// compliance
type SegmentsHandler struct {
	service      ExplorerServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *customMiddleware.ValidationMiddleware
}

// NewSegmentsHandler creates a new segments handler with RFC 7807 error
// handling
func NewSegmentsHandler(service ExplorerServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SegmentsHandler {
	return &SegmentsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "segments_handler")),
		errorHandler: errorHandler,
		validation:   customMiddleware.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the segment exploration routes
func (h *SegmentsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/vocabulary", h.GetVocabulary)
	r.Get("/dataset", h.GetDatasetInfo)
	r.With(customMiddleware.ContentTypeValidator("application/json")).
		Post("/view", h.ComputeView)
	r.With(customMiddleware.ContentTypeValidator("application/json")).
		Post("/export", h.Export)
	r.With(customMiddleware.ContentTypeValidator("multipart/form-data")).
		Post("/upload", h.Upload)
	r.Delete("/upload", h.ClearUpload)

	return r
}

// ViewRequest carries the user's filter selections and sort choice. Empty
// selection lists mean no constraint on that column.
type ViewRequest struct {
	Roles      []string `json:"roles" validate:"omitempty,dive,min=1,max=256"`
	Industries []string `json:"industries" validate:"omitempty,dive,min=1,max=256"`
	Locations  []string `json:"locations" validate:"omitempty,dive,min=1,max=256"`
	States     []string `json:"states" validate:"omitempty,dive,min=1,max=256"`
	Cities     []string `json:"cities" validate:"omitempty,dive,min=1,max=256"`
	SortColumn string   `json:"sort_column" validate:"omitempty,max=128"`
	Descending bool     `json:"descending"`
}

// Selection converts the request to a domain selection.
func (req *ViewRequest) Selection() domain.Selection {
	return domain.Selection{
		Roles:      req.Roles,
		Industries: req.Industries,
		Locations:  req.Locations,
		States:     req.States,
		Cities:     req.Cities,
	}
}

// SortSpec converts the request to a domain sort spec.
func (req *ViewRequest) SortSpec() domain.SortSpec {
	return domain.SortSpec{
		Column:     req.SortColumn,
		Descending: req.Descending,
	}
}

// GetVocabulary handles GET /api/segments/vocabulary
func (h *SegmentsHandler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	vocab, err := h.service.Vocabulary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to derive vocabulary",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   vocab,
	})
}

// GetDatasetInfo handles GET /api/segments/dataset
func (h *SegmentsHandler) GetDatasetInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Info(r.Context()),
	})
}

// ComputeView handles POST /api/segments/view
func (h *SegmentsHandler) ComputeView(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req ViewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "computing view",
		slog.String("request_id", reqID),
		slog.Int("role_filters", len(req.Roles)),
		slog.Int("industry_filters", len(req.Industries)),
		slog.String("sort_column", req.SortColumn),
	)

	view, err := h.service.View(r.Context(), req.Selection(), req.SortSpec())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute view",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  view.TotalRows,
	})
}

// Export handles POST /api/segments/export?format=csv|xlsx. The body carries
// the same selection payload as the view endpoint; the response is the
// filtered dataset as a file download.
func (h *SegmentsHandler) Export(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	var req ViewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffer the export so failures can still produce a problem response.
	var buf bytes.Buffer
	filename, err := h.service.Export(r.Context(), &buf, req.Selection(), req.SortSpec(), format)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to export dataset",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Upload handles POST /api/segments/upload as a multipart form with a
// single "file" field.
func (h *SegmentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A dataset file is required"))
		return
	}
	defer file.Close()

	records, err := h.service.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to ingest uploaded dataset",
			slog.String("error", err.Error()),
			slog.String("filename", header.Filename),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset upload accepted",
		slog.String("filename", header.Filename),
		slog.Int("records", records),
		slog.String("request_id", reqID),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"filename": header.Filename,
			"records":  records,
		},
	})
}

// ClearUpload handles DELETE /api/segments/upload, reverting to the
// configured default dataset.
func (h *SegmentsHandler) ClearUpload(w http.ResponseWriter, r *http.Request) {
	h.service.ClearUpload(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Info(r.Context()),
	})
}

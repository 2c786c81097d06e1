package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"logmerge/internal/config"
	"logmerge/internal/errors"
	"logmerge/internal/operations"
)

// MergeService runs one batch; satisfied by *operations.Runner.
type MergeService interface {
	Run(ctx context.Context, files []operations.InputFile, opts operations.Options) (*operations.Result, error)
}

// MergeHandler accepts a multipart batch of log files and returns the
// merged CSV (or a JSON summary with diagnostics).
type MergeHandler struct {
	service        MergeService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(service MergeService, maxUploadBytes int64, logger *slog.Logger) *MergeHandler {
	return &MergeHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "merge")),
	}
}

// MergeResponse is the JSON form of a batch result.
type MergeResponse struct {
	Success     bool              `json:"success"`
	Rows        int               `json:"rows"`
	Diagnostics errors.List       `json:"diagnostics"`
	Timings     map[string]string `json:"timings"`
}

// Render implements render.Renderer
func (m *MergeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Handle processes POST /api/v1/merge.
func (h *MergeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		errors.WriteError(w, errors.InvalidRequestWithError(err))
		return
	}

	opts, apiErr := h.parseOptions(r)
	if apiErr != nil {
		errors.WriteError(w, apiErr)
		return
	}

	files, apiErr := h.readFiles(r)
	if apiErr != nil {
		errors.WriteError(w, apiErr)
		return
	}

	result, err := h.service.Run(r.Context(), files, opts)
	switch {
	case err == errors.ErrEmptyBatch:
		h.logger.Warn("batch produced no output", slog.Int("files", len(files)))
		errors.WriteError(w, errors.NewWithDetails(
			http.StatusUnprocessableEntity, "EMPTY_BATCH",
			"No valid rows in any uploaded file", result.Diagnostics))
		return
	case err != nil:
		h.logger.Error("batch failed", slog.Any("error", err))
		errors.WriteError(w, errors.ErrInternalServer)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		render.Render(w, r, &MergeResponse{
			Success:     true,
			Rows:        result.Rows,
			Diagnostics: result.Diagnostics,
			Timings: map[string]string{
				"read":   result.ReadDuration.String(),
				"filter": result.FilterDuration.String(),
				"merge":  result.MergeDuration.String(),
			},
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_interval_data.csv"`)
	w.Header().Set("X-Diagnostic-Count", strconv.Itoa(len(result.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.CSV)
}

// parseOptions validates the interval and dedup policy form values.
func (h *MergeHandler) parseOptions(r *http.Request) (operations.Options, *errors.APIError) {
	var opts operations.Options

	if v := r.FormValue("interval"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || !config.ValidInterval(seconds) {
			return opts, errors.InvalidParameter("interval",
				fmt.Sprintf("interval must be one of %v seconds", config.Intervals))
		}
		opts.IntervalSeconds = &seconds
	}

	if v := r.FormValue("policy"); v != "" {
		if v != config.DedupTimestamp && v != config.DedupRow {
			return opts, errors.InvalidParameter("policy", "policy must be timestamp or row")
		}
		opts.DedupPolicy = v
	}
	return opts, nil
}

func (h *MergeHandler) readFiles(r *http.Request) ([]operations.InputFile, *errors.APIError) {
	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		return nil, errors.New(http.StatusBadRequest, "MISSING_PARAMETER", "At least one file is required")
	}

	files := make([]operations.InputFile, 0, len(parts))
	for _, part := range parts {
		f, err := part.Open()
		if err != nil {
			return nil, errors.InvalidRequestWithError(err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.InvalidRequestWithError(err)
		}
		files = append(files, operations.InputFile{Name: part.Filename, Data: data})
	}
	return files, nil
}

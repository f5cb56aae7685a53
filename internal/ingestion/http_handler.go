package ingestion

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/validation"
)

const maxUploadSize = 32 << 20

// Handler exposes ingestion as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

// ServeHTTP godoc
// @Summary      Import movies
// @Description  Creates one movie per row of an uploaded CSV or XLSX file with title, yearOfRelease and genres columns
// @Tags         movies
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file     true   "CSV or XLSX file"
// @Param        headerRow  formData  int      false  "1-based header row"
// @Param        dryRun     formData  boolean  false  "Validate without creating movies"
// @Success      200        {object}  ingestion.Summary
// @Failure      400        {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/movies/import [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.WriteError(w, r, validation.NewFieldError("file", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, r, validation.NewFieldError("file", "file is required"))
		return
	}
	defer file.Close()

	req := Request{FileName: header.Filename, Data: file}

	if raw := strings.TrimSpace(r.FormValue("headerRow")); raw != "" {
		row, err := strconv.Atoi(raw)
		if err != nil || row < 1 {
			api.WriteError(w, r, validation.NewFieldError("headerRow", "headerRow must be a positive integer"))
			return
		}
		idx := row - 1
		req.HeaderRowIndex = &idx
	}
	if raw := strings.TrimSpace(r.FormValue("dryRun")); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			api.WriteError(w, r, validation.NewFieldError("dryRun", "dryRun must be a boolean"))
			return
		}
		req.DryRun = dryRun
	}

	summary, err := h.service.Ingest(r.Context(), req)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, summary)
}

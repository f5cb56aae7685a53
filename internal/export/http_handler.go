package export

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
)

type Handler struct {
	service *Service
}

func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

// ServeHTTP godoc
// @Summary      Export my ratings
// @Description  Downloads the caller's ratings as CSV or XLSX
// @Tags         ratings
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "csv or xlsx"  Enums(csv, xlsx)
// @Success      200
// @Failure      400  {object}  api.ErrorResponse
// @Failure      401  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ratings/me/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized))
		return
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	// Buffer so a failed export still gets the JSON envelope.
	var buf bytes.Buffer
	result, err := h.service.Export(r.Context(), identity.UserID, format, &buf)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.CtxErr(r.Context(), err).Msg("failed to stream export")
	}
}

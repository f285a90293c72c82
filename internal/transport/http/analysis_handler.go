// Package http contains the HTTP handlers and the router assembly of
// the web service.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "payeqcli/internal/errors"
	"payeqcli/internal/services"
	"payeqcli/pkg/contracts/domain"
)

// AnalysisHandler handles analysis HTTP requests.
type AnalysisHandler struct {
	service  *services.AnalysisService
	errs     *apierrors.ErrorHandler
	logger   *slog.Logger
	maxBytes int64
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, errs *apierrors.ErrorHandler, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		errs:     errs,
		logger:   logger.With(slog.String("handler", "analysis")),
		maxBytes: 32 << 20, // rosters can carry tens of thousands of rows
	}
}

// Run handles POST /api/analysis.
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	resp, err := h.service.Run(r.Context(), &req)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

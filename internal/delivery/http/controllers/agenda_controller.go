package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// ImportAgendaRequest is the request body for POST /conferences/import.
type ImportAgendaRequest struct {
	SourceID string `json:"source_id"`
}

// Validate implements Validator.
func (i ImportAgendaRequest) Validate() []string {
	if strings.TrimSpace(i.SourceID) == "" {
		return []string{"source_id is required"}
	}
	return nil
}

// ImportSummaryResponse is the success response envelope for POST /conferences/import.
type ImportSummaryResponse struct {
	Data  *domain.ImportSummary `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// AgendaController handles agenda import.
type AgendaController struct {
	Logger  *slog.Logger
	Service domain.AgendaImportService
}

// NewAgendaController creates an AgendaController with the given logger and service.
func NewAgendaController(logger *slog.Logger, svc domain.AgendaImportService) *AgendaController {
	return &AgendaController{Logger: logger, Service: svc}
}

// Import godoc
// @Summary Import an agenda from Sessionize
// @Description Creates the speakers, rooms, time slots and conferences of a published Sessionize event. Entities that already exist are reused and booked room slots are skipped, so an import can be re-run.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ImportAgendaRequest true "Sessionize event id"
// @Success 200 {object} controllers.ImportSummaryResponse "data contains the import summary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /conferences/import [post]
func (c *AgendaController) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportAgendaRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	summary, err := c.Service.Import(r.Context(), req.SourceID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

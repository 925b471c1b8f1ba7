package controllers

import (
	"log/slog"
	"net/http"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
	"tradefair/internal/services"
)

// maxTopConferences caps the limit query parameter of GET /statistics/top-conferences.
const maxTopConferences = 100

// DashboardSuccessResponse is the success response envelope for GET /statistics/dashboard (200).
type DashboardSuccessResponse struct {
	Data  *domain.DashboardStats `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// StatisticsController serves the organizer and sponsor dashboards.
type StatisticsController struct {
	Logger  *slog.Logger
	Service domain.StatisticsService
}

// NewStatisticsController creates a StatisticsController with the given logger and service.
func NewStatisticsController(logger *slog.Logger, svc domain.StatisticsService) *StatisticsController {
	return &StatisticsController{Logger: logger, Service: svc}
}

// Dashboard godoc
// @Summary Organizer dashboard
// @Description Totals, attendance rate, conferences per day, room utilization and the five most popular conferences.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DashboardSuccessResponse "data contains the dashboard"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /statistics/dashboard [get]
func (c *StatisticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// RoomUtilization godoc
// @Summary Room occupancy against available time slots
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains one entry per room"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /statistics/rooms [get]
func (c *StatisticsController) RoomUtilization(w http.ResponseWriter, r *http.Request) {
	usage, err := c.Service.RoomUtilization(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, usage)
}

// RegistrationsByDay godoc
// @Summary Registration counts per event day
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data maps day to registration count"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /statistics/registrations-by-day [get]
func (c *StatisticsController) RegistrationsByDay(w http.ResponseWriter, r *http.Request) {
	byDay, err := c.Service.RegistrationsByDay(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, byDay)
}

// TopConferences godoc
// @Summary Most registered conferences
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of conferences (default 10, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains conferences with registration counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /statistics/top-conferences [get]
func (c *StatisticsController) TopConferences(w http.ResponseWriter, r *http.Request) {
	limit, ok := helpers.QueryInt(r, "limit", services.DefaultTopConferences)
	if !ok || limit < 1 || limit > maxTopConferences {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "limit must be between 1 and 100")
		return
	}
	top, err := c.Service.TopConferences(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, top)
}

// ConferenceCounts godoc
// @Summary Registration count of every conference
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains id, title and registration_count per conference"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /statistics/conferences [get]
func (c *StatisticsController) ConferenceCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := c.Service.ConferenceRegistrationCounts(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, counts)
}

// Sponsor godoc
// @Summary Sponsor dashboard
// @Description The caller's sponsored conferences with their registration counts.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains conferences with registration counts"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /statistics/sponsor [get]
func (c *StatisticsController) Sponsor(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	stats, err := c.Service.SponsorDashboard(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

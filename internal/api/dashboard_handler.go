package api

import (
	"net/http"

	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute overview.")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *DashboardHandler) GetDueTasks(c *gin.Context) {
	tasks, err := h.dashboardService.DueTasks(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute due tasks.")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *DashboardHandler) GetActiveTreatments(c *gin.Context) {
	treatments, err := h.dashboardService.ActiveTreatments(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to retrieve treatments.")
		return
	}
	c.JSON(http.StatusOK, MapTreatmentsToResponse(treatments))
}

func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultActivityLimit, 1, 100)
	if !ok {
		return
	}
	activities, err := h.dashboardService.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve recent activities.")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// GetCalendar godoc
// @Summary Calendar of scheduled care and treatments
// @Description Projected watering and fertilization dates plus treatment start and end dates in the range, earliest first.
// @Tags Dashboard
// @Produce json
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Success 200 {array} events.CalendarEvent
// @Failure 400 {object} gin.H "Invalid range"
// @Router /dashboard/calendar [get]
func (h *DashboardHandler) GetCalendar(c *gin.Context) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return
	}
	calendar, err := h.dashboardService.Calendar(c.Request.Context(), start, end)
	if err != nil {
		respondWithError(c, err, "Failed to build calendar.")
		return
	}
	c.JSON(http.StatusOK, calendar)
}

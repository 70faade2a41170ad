package api

import (
	"net/http"

	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

// JobHandler exposes the notification sweep and cleanup to an external
// scheduler.
type JobHandler struct {
	notificationService service.NotificationService
	retentionDays       int
	now                 service.Clock
}

func NewJobHandler(notificationService service.NotificationService, retentionDays int, now service.Clock) *JobHandler {
	if now == nil {
		now = service.SystemClock
	}
	return &JobHandler{notificationService: notificationService, retentionDays: retentionDays, now: now}
}

// RunSweep godoc
// @Summary Run the notification sweep
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day to sweep for (YYYY-MM-DD), defaults to today"
// @Success 200 {object} gin.H "created count"
// @Router /jobs/notification-sweep [post]
func (h *JobHandler) RunSweep(c *gin.Context) {
	today := h.now()
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw, "date")
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		today = d
	}
	created, err := h.notificationService.RunSweep(c.Request.Context(), today)
	if err != nil {
		respondWithError(c, err, "Notification sweep failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *JobHandler) RunCleanup(c *gin.Context) {
	days, ok := queryInt(c, "retention_days", h.retentionDays, 0, 3650)
	if !ok {
		return
	}
	deleted, err := h.notificationService.RunCleanup(c.Request.Context(), days)
	if err != nil {
		respondWithError(c, err, "Notification cleanup failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

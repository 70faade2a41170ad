package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	PlantID   *string    `json:"plantId,omitempty"`
	PlantName string     `json:"plantName,omitempty"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

func MapNotificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.Hex(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		PlantID:   hexPtr(n.PlantID),
		PlantName: n.PlantName,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param skip query int false "Records to skip"
// @Param limit query int false "Maximum records (1-1000, default 100)"
// @Param unread_only query bool false "Only unread notifications"
// @Success 200 {array} NotificationResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultNotificationLimit, 1, 1000)
	if !ok {
		return
	}
	unreadOnly, ok := queryBool(c, "unread_only")
	if !ok {
		return
	}
	list, err := h.notificationService.ListNotifications(c.Request.Context(), int64(skip), int64(limit), unreadOnly)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve notifications.")
		return
	}
	resp := make([]NotificationResponse, len(list))
	for i := range list {
		resp[i] = MapNotificationToResponse(&list[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetStats(c *gin.Context) {
	stats, err := h.notificationService.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to retrieve notification stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "notificationId", "notification")
	if !ok {
		return
	}
	n, err := h.notificationService.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to mark notification as read.")
		return
	}
	c.JSON(http.StatusOK, MapNotificationToResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notificationService.MarkAllRead(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to mark notifications as read.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "notificationId", "notification")
	if !ok {
		return
	}
	if err := h.notificationService.DeleteNotification(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete notification.")
		return
	}
	c.Status(http.StatusNoContent)
}

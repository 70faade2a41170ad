package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type GrowthLogHandler struct {
	growthService service.GrowthLogService
}

func NewGrowthLogHandler(growthService service.GrowthLogService) *GrowthLogHandler {
	return &GrowthLogHandler{growthService: growthService}
}

// --- DTOs ---

type CreateGrowthLogRequest struct {
	PhotoID      *string    `json:"photoId"`
	MeasuredAt   *time.Time `json:"measuredAt"` // Defaults to now
	HeightCm     *float64   `json:"heightCm" binding:"omitempty,gte=0"`
	WidthCm      *float64   `json:"widthCm" binding:"omitempty,gte=0"`
	HealthStatus string     `json:"healthStatus" binding:"omitempty,oneof=excellent good fair poor"`
	Notes        string     `json:"notes"`
}

type UpdateGrowthLogRequest struct {
	PhotoID      *string    `json:"photoId"`
	ClearPhoto   bool       `json:"clearPhoto"`
	MeasuredAt   *time.Time `json:"measuredAt"`
	HeightCm     *float64   `json:"heightCm" binding:"omitempty,gte=0"`
	WidthCm      *float64   `json:"widthCm" binding:"omitempty,gte=0"`
	HealthStatus *string    `json:"healthStatus" binding:"omitempty,oneof=excellent good fair poor"`
	Notes        *string    `json:"notes"`
}

type GrowthLogResponse struct {
	ID           string    `json:"id"`
	PlantID      string    `json:"plantId"`
	PhotoID      *string   `json:"photoId,omitempty"`
	MeasuredAt   time.Time `json:"measuredAt"`
	HeightCm     *float64  `json:"heightCm,omitempty"`
	WidthCm      *float64  `json:"widthCm,omitempty"`
	HealthStatus string    `json:"healthStatus,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func MapGrowthLogToResponse(g *domain.GrowthLog) GrowthLogResponse {
	return GrowthLogResponse{
		ID:           g.ID.Hex(),
		PlantID:      g.PlantID.Hex(),
		PhotoID:      hexPtr(g.PhotoID),
		MeasuredAt:   g.MeasuredAt,
		HeightCm:     g.HeightCm,
		WidthCm:      g.WidthCm,
		HealthStatus: string(g.HealthStatus),
		Notes:        g.Notes,
		CreatedAt:    g.CreatedAt,
	}
}

// --- Handler Methods ---

func (h *GrowthLogHandler) GetGrowthLog(c *gin.Context) {
	id, ok := pathID(c, "growthLogId", "growth log")
	if !ok {
		return
	}
	g, err := h.growthService.GetGrowthLog(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve growth log.")
		return
	}
	c.JSON(http.StatusOK, MapGrowthLogToResponse(g))
}

func (h *GrowthLogHandler) UpdateGrowthLog(c *gin.Context) {
	id, ok := pathID(c, "growthLogId", "growth log")
	if !ok {
		return
	}
	var req UpdateGrowthLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	photoID, err := optionalID(req.PhotoID, "photoId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	in := service.GrowthLogUpdate{
		PhotoID:    photoID,
		ClearPhoto: req.ClearPhoto,
		MeasuredAt: req.MeasuredAt,
		HeightCm:   req.HeightCm,
		WidthCm:    req.WidthCm,
		Notes:      req.Notes,
	}
	if req.HealthStatus != nil {
		status := domain.HealthStatus(*req.HealthStatus)
		in.HealthStatus = &status
	}

	g, err := h.growthService.UpdateGrowthLog(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err, "Failed to update growth log.")
		return
	}
	c.JSON(http.StatusOK, MapGrowthLogToResponse(g))
}

func (h *GrowthLogHandler) DeleteGrowthLog(c *gin.Context) {
	id, ok := pathID(c, "growthLogId", "growth log")
	if !ok {
		return
	}
	if err := h.growthService.DeleteGrowthLog(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete growth log.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GrowthLogHandler) ListPlantGrowthLogs(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	logs, err := h.growthService.ListPlantGrowthLogs(c.Request.Context(), plantID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve growth logs.")
		return
	}
	resp := make([]GrowthLogResponse, len(logs))
	for i := range logs {
		resp[i] = MapGrowthLogToResponse(&logs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateGrowthLog godoc
// @Summary Record a growth measurement
// @Description The optional photo must belong to the same plant.
// @Tags Growth
// @Accept json
// @Produce json
// @Param growthLog body CreateGrowthLogRequest true "Measurement"
// @Success 201 {object} GrowthLogResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Plant or photo not found"
// @Router /growth-logs/plants/{plantId}/growth [post]
func (h *GrowthLogHandler) CreateGrowthLog(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	var req CreateGrowthLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	photoID, err := optionalID(req.PhotoID, "photoId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	in := service.GrowthLogInput{
		PhotoID:      photoID,
		HeightCm:     req.HeightCm,
		WidthCm:      req.WidthCm,
		HealthStatus: domain.HealthStatus(req.HealthStatus),
		Notes:        req.Notes,
	}
	if req.MeasuredAt != nil {
		in.MeasuredAt = *req.MeasuredAt
	}

	g, err := h.growthService.CreateGrowthLog(c.Request.Context(), plantID, in)
	if err != nil {
		respondWithError(c, err, "Failed to create growth log.")
		return
	}
	c.JSON(http.StatusCreated, MapGrowthLogToResponse(g))
}

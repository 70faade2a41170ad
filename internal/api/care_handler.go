package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/schedule"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

// MaxDueDaysAhead bounds the due list lookahead in both directions.
const MaxDueDaysAhead = 30

// CareHandler serves one care kind; the watering and fertilization route
// groups each get their own instance.
type CareHandler struct {
	kind        domain.CareKind
	careService service.CareService
}

func NewCareHandler(kind domain.CareKind, careService service.CareService) *CareHandler {
	return &CareHandler{kind: kind, careService: careService}
}

// --- DTOs ---

type CreateScheduleRequest struct {
	FrequencyDays  int     `json:"frequencyDays" binding:"required,gt=0"`
	Amount         string  `json:"amount"`
	TimeOfDay      string  `json:"timeOfDay"`
	FertilizerType string  `json:"fertilizerType"`
	StartDate      *string `json:"startDate"` // YYYY-MM-DD, defaults to today
	EndDate        *string `json:"endDate"`
	IsActive       *bool   `json:"isActive"`
	Notes          string  `json:"notes"`
}

type UpdateScheduleRequest struct {
	FrequencyDays  *int    `json:"frequencyDays" binding:"omitempty,gt=0"`
	Amount         *string `json:"amount"`
	TimeOfDay      *string `json:"timeOfDay"`
	FertilizerType *string `json:"fertilizerType"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	ClearEndDate   bool    `json:"clearEndDate"`
	IsActive       *bool   `json:"isActive"`
	Notes          *string `json:"notes"`
}

type CreateLogRequest struct {
	ScheduleID     *string    `json:"scheduleId"`
	OccurredAt     *time.Time `json:"occurredAt"` // Defaults to now
	Amount         string     `json:"amount"`
	FertilizerType string     `json:"fertilizerType"`
	Notes          string     `json:"notes"`
}

type ScheduleResponse struct {
	ID             string    `json:"id"`
	PlantID        string    `json:"plantId"`
	Kind           string    `json:"kind"`
	FrequencyDays  int       `json:"frequencyDays"`
	Amount         string    `json:"amount,omitempty"`
	TimeOfDay      string    `json:"timeOfDay,omitempty"`
	FertilizerType string    `json:"fertilizerType,omitempty"`
	StartDate      string    `json:"startDate"`
	EndDate        *string   `json:"endDate,omitempty"`
	IsActive       bool      `json:"isActive"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	NextDate       *string   `json:"nextDate,omitempty"`
}

type CareLogResponse struct {
	ID             string    `json:"id"`
	PlantID        string    `json:"plantId"`
	ScheduleID     *string   `json:"scheduleId,omitempty"`
	Kind           string    `json:"kind"`
	OccurredAt     time.Time `json:"occurredAt"`
	Amount         string    `json:"amount,omitempty"`
	FertilizerType string    `json:"fertilizerType,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func MapScheduleToResponse(s *domain.CareSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:             s.ID.Hex(),
		PlantID:        s.PlantID.Hex(),
		Kind:           string(s.Kind),
		FrequencyDays:  s.FrequencyDays,
		Amount:         s.Amount,
		TimeOfDay:      s.TimeOfDay,
		FertilizerType: s.FertilizerType,
		StartDate:      dateString(s.StartDate),
		EndDate:        dateStringPtr(s.EndDate),
		IsActive:       s.IsActive,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func MapDueToResponse(due []schedule.Due) []ScheduleResponse {
	resp := make([]ScheduleResponse, len(due))
	for i := range due {
		resp[i] = MapScheduleToResponse(&due[i].Schedule)
		next := dateString(due[i].NextDate)
		resp[i].NextDate = &next
	}
	return resp
}

func MapCareLogToResponse(l *domain.CareLog) CareLogResponse {
	return CareLogResponse{
		ID:             l.ID.Hex(),
		PlantID:        l.PlantID.Hex(),
		ScheduleID:     hexPtr(l.ScheduleID),
		Kind:           string(l.Kind),
		OccurredAt:     l.OccurredAt,
		Amount:         l.Amount,
		FertilizerType: l.FertilizerType,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
	}
}

// --- Handler Methods ---

func (h *CareHandler) GetSchedule(c *gin.Context) {
	id, ok := pathID(c, "scheduleId", "schedule")
	if !ok {
		return
	}
	s, err := h.careService.GetSchedule(c.Request.Context(), h.kind, id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve schedule.")
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(&s.CareSchedule))
}

// GetScheduleNextDate godoc
// @Summary Schedule with its next date
// @Description The next date is omitted when the schedule is inactive or has ended.
// @Tags Care
// @Produce json
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} gin.H "Schedule not found"
// @Router /watering/schedules/{scheduleId}/next-date [get]
func (h *CareHandler) GetScheduleNextDate(c *gin.Context) {
	id, ok := pathID(c, "scheduleId", "schedule")
	if !ok {
		return
	}
	s, err := h.careService.GetSchedule(c.Request.Context(), h.kind, id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve schedule.")
		return
	}
	resp := MapScheduleToResponse(&s.CareSchedule)
	resp.NextDate = dateStringPtr(s.NextDate)
	c.JSON(http.StatusOK, resp)
}

func (h *CareHandler) UpdateSchedule(c *gin.Context) {
	id, ok := pathID(c, "scheduleId", "schedule")
	if !ok {
		return
	}
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	start, err := optionalDate(req.StartDate, "startDate")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := optionalDate(req.EndDate, "endDate")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.careService.UpdateSchedule(c.Request.Context(), h.kind, id, service.ScheduleUpdate{
		FrequencyDays:  req.FrequencyDays,
		Amount:         req.Amount,
		TimeOfDay:      req.TimeOfDay,
		FertilizerType: req.FertilizerType,
		StartDate:      start,
		EndDate:        end,
		ClearEndDate:   req.ClearEndDate,
		IsActive:       req.IsActive,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err, "Failed to update schedule.")
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(s))
}

func (h *CareHandler) DeleteSchedule(c *gin.Context) {
	id, ok := pathID(c, "scheduleId", "schedule")
	if !ok {
		return
	}
	if err := h.careService.DeleteSchedule(c.Request.Context(), h.kind, id); err != nil {
		respondWithError(c, err, "Failed to delete schedule.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDue godoc
// @Summary Due schedules
// @Description Schedules whose next date is on or before today + days_ahead, earliest first.
// @Description A negative days_ahead keeps only schedules at least that many days overdue.
// @Tags Care
// @Produce json
// @Param days_ahead query int false "Lookahead in days (-30 to 30, default 0)"
// @Success 200 {array} ScheduleResponse
// @Router /watering/due [get]
func (h *CareHandler) GetDue(c *gin.Context) {
	daysAhead, ok := queryInt(c, "days_ahead", 0, -MaxDueDaysAhead, MaxDueDaysAhead)
	if !ok {
		return
	}
	due, err := h.careService.DueToday(c.Request.Context(), h.kind, daysAhead)
	if err != nil {
		respondWithError(c, err, "Failed to compute due schedules.")
		return
	}
	c.JSON(http.StatusOK, MapDueToResponse(due))
}

func (h *CareHandler) ListPlantSchedules(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	activeOnly, ok := queryBool(c, "active_only")
	if !ok {
		return
	}
	schedules, err := h.careService.ListPlantSchedules(c.Request.Context(), h.kind, plantID, activeOnly)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve schedules.")
		return
	}
	resp := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		resp[i] = MapScheduleToResponse(&schedules[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSchedule godoc
// @Summary Create a schedule for a plant
// @Tags Care
// @Accept json
// @Produce json
// @Param schedule body CreateScheduleRequest true "Schedule details"
// @Success 201 {object} ScheduleResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Plant not found"
// @Router /watering/plants/{plantId}/schedules [post]
func (h *CareHandler) CreateSchedule(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := service.ScheduleInput{
		FrequencyDays:  req.FrequencyDays,
		Amount:         req.Amount,
		TimeOfDay:      req.TimeOfDay,
		FertilizerType: req.FertilizerType,
		IsActive:       req.IsActive,
		Notes:          req.Notes,
	}
	start, err := optionalDate(req.StartDate, "startDate")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if start != nil {
		in.StartDate = *start
	}
	if in.EndDate, err = optionalDate(req.EndDate, "endDate"); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.careService.CreateSchedule(c.Request.Context(), h.kind, plantID, in)
	if err != nil {
		respondWithError(c, err, "Failed to create schedule.")
		return
	}
	c.JSON(http.StatusCreated, MapScheduleToResponse(s))
}

func (h *CareHandler) ListPlantLogs(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultCareLogLimit, 1, 100)
	if !ok {
		return
	}
	logs, err := h.careService.ListPlantLogs(c.Request.Context(), h.kind, plantID, int64(limit))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve logs.")
		return
	}
	resp := make([]CareLogResponse, len(logs))
	for i := range logs {
		resp[i] = MapCareLogToResponse(&logs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CareHandler) CreateLog(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	scheduleID, err := optionalID(req.ScheduleID, "scheduleId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	in := service.LogInput{
		ScheduleID:     scheduleID,
		Amount:         req.Amount,
		FertilizerType: req.FertilizerType,
		Notes:          req.Notes,
	}
	if req.OccurredAt != nil {
		in.OccurredAt = *req.OccurredAt
	}

	l, err := h.careService.CreateLog(c.Request.Context(), h.kind, plantID, in)
	if err != nil {
		respondWithError(c, err, "Failed to create log.")
		return
	}
	c.JSON(http.StatusCreated, MapCareLogToResponse(l))
}

func (h *CareHandler) DeleteLog(c *gin.Context) {
	id, ok := pathID(c, "logId", "log")
	if !ok {
		return
	}
	if err := h.careService.DeleteLog(c.Request.Context(), h.kind, id); err != nil {
		respondWithError(c, err, "Failed to delete log.")
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type TreatmentHandler struct {
	treatmentService service.TreatmentService
}

func NewTreatmentHandler(treatmentService service.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{treatmentService: treatmentService}
}

// --- DTOs ---

type CreateTreatmentRequest struct {
	IssueType     string  `json:"issueType" binding:"required,oneof=pest disease"`
	IssueName     string  `json:"issueName" binding:"required"`
	TreatmentType string  `json:"treatmentType" binding:"required,oneof=chemical organic manual biological"`
	ProductName   string  `json:"productName"`
	StartDate     *string `json:"startDate"` // YYYY-MM-DD, defaults to today
	EndDate       *string `json:"endDate"`
	Status        string  `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	Notes         string  `json:"notes"`
}

type UpdateTreatmentRequest struct {
	IssueType     *string `json:"issueType" binding:"omitempty,oneof=pest disease"`
	IssueName     *string `json:"issueName" binding:"omitempty,min=1"`
	TreatmentType *string `json:"treatmentType" binding:"omitempty,oneof=chemical organic manual biological"`
	ProductName   *string `json:"productName"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
	ClearEndDate  bool    `json:"clearEndDate"`
	Status        *string `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	Notes         *string `json:"notes"`
}

type CreateApplicationRequest struct {
	AppliedAt *time.Time `json:"appliedAt"` // Defaults to now
	Amount    string     `json:"amount"`
	Notes     string     `json:"notes"`
}

type TreatmentResponse struct {
	ID            string                `json:"id"`
	PlantID       string                `json:"plantId"`
	IssueType     string                `json:"issueType"`
	IssueName     string                `json:"issueName"`
	TreatmentType string                `json:"treatmentType"`
	ProductName   string                `json:"productName,omitempty"`
	StartDate     string                `json:"startDate"`
	EndDate       *string               `json:"endDate,omitempty"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Applications  []ApplicationResponse `json:"applications,omitempty"`
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	TreatmentID string    `json:"treatmentId"`
	PlantID     string    `json:"plantId"`
	AppliedAt   time.Time `json:"appliedAt"`
	Amount      string    `json:"amount,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func MapTreatmentToResponse(t *domain.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:            t.ID.Hex(),
		PlantID:       t.PlantID.Hex(),
		IssueType:     string(t.IssueType),
		IssueName:     t.IssueName,
		TreatmentType: string(t.TreatmentType),
		ProductName:   t.ProductName,
		StartDate:     dateString(t.StartDate),
		EndDate:       dateStringPtr(t.EndDate),
		Status:        string(t.Status),
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func MapTreatmentsToResponse(treatments []domain.Treatment) []TreatmentResponse {
	resp := make([]TreatmentResponse, len(treatments))
	for i := range treatments {
		resp[i] = MapTreatmentToResponse(&treatments[i])
	}
	return resp
}

func MapApplicationToResponse(a *domain.TreatmentApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID.Hex(),
		TreatmentID: a.TreatmentID.Hex(),
		PlantID:     a.PlantID.Hex(),
		AppliedAt:   a.AppliedAt,
		Amount:      a.Amount,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

func MapApplicationsToResponse(apps []domain.TreatmentApplication) []ApplicationResponse {
	resp := make([]ApplicationResponse, len(apps))
	for i := range apps {
		resp[i] = MapApplicationToResponse(&apps[i])
	}
	return resp
}

// --- Handler Methods ---

func (h *TreatmentHandler) GetTreatment(c *gin.Context) {
	id, ok := pathID(c, "treatmentId", "treatment")
	if !ok {
		return
	}
	t, err := h.treatmentService.GetTreatment(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve treatment.")
		return
	}
	resp := MapTreatmentToResponse(&t.Treatment)
	resp.Applications = MapApplicationsToResponse(t.Applications)
	c.JSON(http.StatusOK, resp)
}

func (h *TreatmentHandler) UpdateTreatment(c *gin.Context) {
	id, ok := pathID(c, "treatmentId", "treatment")
	if !ok {
		return
	}
	var req UpdateTreatmentRequest
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

	in := service.TreatmentUpdate{
		IssueName:    req.IssueName,
		ProductName:  req.ProductName,
		StartDate:    start,
		EndDate:      end,
		ClearEndDate: req.ClearEndDate,
		Notes:        req.Notes,
	}
	if req.IssueType != nil {
		v := domain.IssueType(*req.IssueType)
		in.IssueType = &v
	}
	if req.TreatmentType != nil {
		v := domain.TreatmentType(*req.TreatmentType)
		in.TreatmentType = &v
	}
	if req.Status != nil {
		v := domain.TreatmentStatus(*req.Status)
		in.Status = &v
	}

	t, err := h.treatmentService.UpdateTreatment(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err, "Failed to update treatment.")
		return
	}
	c.JSON(http.StatusOK, MapTreatmentToResponse(t))
}

func (h *TreatmentHandler) DeleteTreatment(c *gin.Context) {
	id, ok := pathID(c, "treatmentId", "treatment")
	if !ok {
		return
	}
	if err := h.treatmentService.DeleteTreatment(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete treatment.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TreatmentHandler) ListActiveTreatments(c *gin.Context) {
	treatments, err := h.treatmentService.ListActiveTreatments(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to retrieve treatments.")
		return
	}
	c.JSON(http.StatusOK, MapTreatmentsToResponse(treatments))
}

func (h *TreatmentHandler) ListApplications(c *gin.Context) {
	id, ok := pathID(c, "treatmentId", "treatment")
	if !ok {
		return
	}
	apps, err := h.treatmentService.ListApplications(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve applications.")
		return
	}
	c.JSON(http.StatusOK, MapApplicationsToResponse(apps))
}

func (h *TreatmentHandler) CreateApplication(c *gin.Context) {
	id, ok := pathID(c, "treatmentId", "treatment")
	if !ok {
		return
	}
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := service.ApplicationInput{Amount: req.Amount, Notes: req.Notes}
	if req.AppliedAt != nil {
		in.AppliedAt = *req.AppliedAt
	}
	app, err := h.treatmentService.CreateApplication(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err, "Failed to record application.")
		return
	}
	c.JSON(http.StatusCreated, MapApplicationToResponse(app))
}

// ListPlantTreatments godoc
// @Summary Treatments of a plant
// @Tags Treatments
// @Produce json
// @Param status query string false "active, completed or cancelled"
// @Success 200 {array} TreatmentResponse
// @Failure 404 {object} gin.H "Plant not found"
// @Router /treatments/plants/{plantId}/treatments [get]
func (h *TreatmentHandler) ListPlantTreatments(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	status := domain.TreatmentStatus(c.Query("status"))
	treatments, err := h.treatmentService.ListPlantTreatments(c.Request.Context(), plantID, status)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve treatments.")
		return
	}
	c.JSON(http.StatusOK, MapTreatmentsToResponse(treatments))
}

func (h *TreatmentHandler) CreateTreatment(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	var req CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := service.TreatmentInput{
		IssueType:     domain.IssueType(req.IssueType),
		IssueName:     req.IssueName,
		TreatmentType: domain.TreatmentType(req.TreatmentType),
		ProductName:   req.ProductName,
		Status:        domain.TreatmentStatus(req.Status),
		Notes:         req.Notes,
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

	t, err := h.treatmentService.CreateTreatment(c.Request.Context(), plantID, in)
	if err != nil {
		respondWithError(c, err, "Failed to create treatment.")
		return
	}
	c.JSON(http.StatusCreated, MapTreatmentToResponse(t))
}

package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type PlantHandler struct {
	plantService    service.PlantService
	timelineService service.TimelineService
}

func NewPlantHandler(plantService service.PlantService, timelineService service.TimelineService) *PlantHandler {
	return &PlantHandler{plantService: plantService, timelineService: timelineService}
}

// --- DTOs ---

type CreatePlantRequest struct {
	Name            string                 `json:"name" binding:"required"`
	ScientificName  string                 `json:"scientificName"`
	Type            string                 `json:"type" binding:"required,oneof=indoor outdoor"`
	Category        string                 `json:"category" binding:"required,oneof=flower tree grass other"`
	Species         string                 `json:"species"`
	LocationID      *string                `json:"locationId"`
	AcquisitionDate *string                `json:"acquisitionDate"` // YYYY-MM-DD
	Notes           string                 `json:"notes"`
	ExtraData       map[string]interface{} `json:"extraData"`
}

// UpdatePlantRequest is a partial update. ClearLocation detaches the plant
// from its location.
type UpdatePlantRequest struct {
	Name            *string                `json:"name" binding:"omitempty,min=1"`
	ScientificName  *string                `json:"scientificName"`
	Type            *string                `json:"type" binding:"omitempty,oneof=indoor outdoor"`
	Category        *string                `json:"category" binding:"omitempty,oneof=flower tree grass other"`
	Species         *string                `json:"species"`
	LocationID      *string                `json:"locationId"`
	ClearLocation   bool                   `json:"clearLocation"`
	AcquisitionDate *string                `json:"acquisitionDate"`
	Notes           *string                `json:"notes"`
	ExtraData       map[string]interface{} `json:"extraData"`
}

type PlantResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	ScientificName  string                 `json:"scientificName,omitempty"`
	Type            string                 `json:"type"`
	Category        string                 `json:"category"`
	Species         string                 `json:"species,omitempty"`
	LocationID      *string                `json:"locationId,omitempty"`
	LocationName    string                 `json:"locationName,omitempty"`
	LocationType    string                 `json:"locationType,omitempty"`
	AcquisitionDate *string                `json:"acquisitionDate,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	ExtraData       map[string]interface{} `json:"extraData,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func MapPlantToResponse(p *domain.Plant) PlantResponse {
	return PlantResponse{
		ID:              p.ID.Hex(),
		Name:            p.Name,
		ScientificName:  p.ScientificName,
		Type:            string(p.Type),
		Category:        string(p.Category),
		Species:         p.Species,
		LocationID:      hexPtr(p.LocationID),
		AcquisitionDate: dateStringPtr(p.AcquisitionDate),
		Notes:           p.Notes,
		ExtraData:       p.ExtraData,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func MapPlantDetailsToResponse(d *service.PlantDetails) PlantResponse {
	resp := MapPlantToResponse(&d.Plant)
	resp.LocationName = d.LocationName
	resp.LocationType = string(d.LocationType)
	return resp
}

func MapPlantDetailsListToResponse(plants []service.PlantDetails) []PlantResponse {
	resp := make([]PlantResponse, len(plants))
	for i := range plants {
		resp[i] = MapPlantDetailsToResponse(&plants[i])
	}
	return resp
}

// --- Handler Methods ---

// ListPlants godoc
// @Summary List plants
// @Description Lists plants, optionally filtered by type, category and location.
// @Tags Plants
// @Produce json
// @Param type query string false "indoor or outdoor"
// @Param category query string false "flower, tree, grass or other"
// @Param location_id query string false "Location ObjectID Hex"
// @Param skip query int false "Records to skip"
// @Param limit query int false "Maximum records (1-1000, default 100)"
// @Success 200 {array} PlantResponse
// @Router /plants [get]
func (h *PlantHandler) ListPlants(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultPlantListLimit, 1, service.MaxPlantListLimit)
	if !ok {
		return
	}
	filter := domain.PlantFilter{
		Type:     domain.PlantType(c.Query("type")),
		Category: domain.PlantCategory(c.Query("category")),
		Skip:     int64(skip),
		Limit:    int64(limit),
	}
	if raw, ok := c.GetQuery("location_id"); ok && raw != "" {
		id, err := optionalID(&raw, "location_id")
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.LocationID = id
	}

	plants, err := h.plantService.ListPlants(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve plants.")
		return
	}
	c.JSON(http.StatusOK, MapPlantDetailsListToResponse(plants))
}

func (h *PlantHandler) SearchPlants(c *gin.Context) {
	plants, err := h.plantService.SearchPlants(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err, "Failed to search plants.")
		return
	}
	c.JSON(http.StatusOK, MapPlantDetailsListToResponse(plants))
}

func (h *PlantHandler) PlantsByAcquisitionDate(c *gin.Context) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return
	}
	plants, err := h.plantService.PlantsByAcquisitionDate(c.Request.Context(), start, end)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve plants.")
		return
	}
	c.JSON(http.StatusOK, MapPlantDetailsListToResponse(plants))
}

func (h *PlantHandler) PlantsByLocation(c *gin.Context) {
	locationID, ok := pathID(c, "locationId", "location")
	if !ok {
		return
	}
	plants, err := h.plantService.PlantsByLocation(c.Request.Context(), locationID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve plants.")
		return
	}
	c.JSON(http.StatusOK, MapPlantDetailsListToResponse(plants))
}

func (h *PlantHandler) GetPlant(c *gin.Context) {
	id, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	plant, err := h.plantService.GetPlant(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve plant.")
		return
	}
	c.JSON(http.StatusOK, MapPlantDetailsToResponse(plant))
}

// CreatePlant godoc
// @Summary Create a plant
// @Tags Plants
// @Accept json
// @Produce json
// @Param plant body CreatePlantRequest true "Plant details"
// @Success 201 {object} PlantResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Location not found"
// @Router /plants [post]
func (h *PlantHandler) CreatePlant(c *gin.Context) {
	var req CreatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	locationID, err := optionalID(req.LocationID, "locationId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	acquired, err := optionalDate(req.AcquisitionDate, "acquisitionDate")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plant, err := h.plantService.CreatePlant(c.Request.Context(), service.PlantInput{
		Name:            req.Name,
		ScientificName:  req.ScientificName,
		Type:            domain.PlantType(req.Type),
		Category:        domain.PlantCategory(req.Category),
		Species:         req.Species,
		LocationID:      locationID,
		AcquisitionDate: acquired,
		Notes:           req.Notes,
		ExtraData:       req.ExtraData,
	})
	if err != nil {
		respondWithError(c, err, "Failed to create plant.")
		return
	}
	c.JSON(http.StatusCreated, MapPlantToResponse(plant))
}

func (h *PlantHandler) UpdatePlant(c *gin.Context) {
	id, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	var req UpdatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	locationID, err := optionalID(req.LocationID, "locationId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	acquired, err := optionalDate(req.AcquisitionDate, "acquisitionDate")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	in := service.PlantUpdate{
		Name:            req.Name,
		ScientificName:  req.ScientificName,
		Species:         req.Species,
		LocationID:      locationID,
		ClearLocation:   req.ClearLocation,
		AcquisitionDate: acquired,
		Notes:           req.Notes,
		ExtraData:       req.ExtraData,
	}
	if req.Type != nil {
		t := domain.PlantType(*req.Type)
		in.Type = &t
	}
	if req.Category != nil {
		cat := domain.PlantCategory(*req.Category)
		in.Category = &cat
	}

	plant, err := h.plantService.UpdatePlant(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err, "Failed to update plant.")
		return
	}
	c.JSON(http.StatusOK, MapPlantToResponse(plant))
}

// DeletePlant godoc
// @Summary Delete a plant
// @Description Deletes the plant with its schedules, logs, treatments, photos and growth logs.
// @Tags Plants
// @Success 204
// @Failure 404 {object} gin.H "Plant not found"
// @Router /plants/{plantId} [delete]
func (h *PlantHandler) DeletePlant(c *gin.Context) {
	id, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	if err := h.plantService.DeletePlant(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete plant.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTimeline godoc
// @Summary Plant timeline
// @Description Every logged event of the plant, most recent first.
// @Tags Plants
// @Produce json
// @Success 200 {array} events.TimelineEvent
// @Failure 404 {object} gin.H "Plant not found"
// @Router /plants/{plantId}/timeline [get]
func (h *PlantHandler) GetTimeline(c *gin.Context) {
	id, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	timeline, err := h.timelineService.PlantTimeline(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to build timeline.")
		return
	}
	c.JSON(http.StatusOK, timeline)
}

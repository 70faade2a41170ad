package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// --- DTOs ---

type CreateLocationRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Type        string                 `json:"type" binding:"required,oneof=indoor outdoor"`
	Description string                 `json:"description"`
	Zone        string                 `json:"zone"`
	ExtraData   map[string]interface{} `json:"extraData"`
}

type UpdateLocationRequest struct {
	Name        *string                `json:"name" binding:"omitempty,min=1"`
	Type        *string                `json:"type" binding:"omitempty,oneof=indoor outdoor"`
	Description *string                `json:"description"`
	Zone        *string                `json:"zone"`
	ExtraData   map[string]interface{} `json:"extraData"`
}

type LocationResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Zone        string                 `json:"zone,omitempty"`
	ExtraData   map[string]interface{} `json:"extraData,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	PlantsCount *int64                 `json:"plantsCount,omitempty"`
}

func MapLocationToResponse(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID.Hex(),
		Name:        l.Name,
		Type:        string(l.Type),
		Description: l.Description,
		Zone:        l.Zone,
		ExtraData:   l.ExtraData,
		CreatedAt:   l.CreatedAt,
	}
}

func MapLocationSummaryToResponse(s *service.LocationSummary) LocationResponse {
	resp := MapLocationToResponse(&s.Location)
	count := s.PlantsCount
	resp.PlantsCount = &count
	return resp
}

// --- Handler Methods ---

// ListLocations godoc
// @Summary List locations
// @Description Lists every location with the number of plants placed in it.
// @Tags Locations
// @Produce json
// @Success 200 {array} LocationResponse
// @Router /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationService.ListLocations(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to retrieve locations.")
		return
	}
	resp := make([]LocationResponse, len(locations))
	for i := range locations {
		resp[i] = MapLocationSummaryToResponse(&locations[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := pathID(c, "locationId", "location")
	if !ok {
		return
	}
	location, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve location.")
		return
	}
	c.JSON(http.StatusOK, MapLocationSummaryToResponse(location))
}

// CreateLocation godoc
// @Summary Create a location
// @Tags Locations
// @Accept json
// @Produce json
// @Param location body CreateLocationRequest true "Location details"
// @Success 201 {object} LocationResponse
// @Failure 400 {object} gin.H "Validation error"
// @Router /locations [post]
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	location, err := h.locationService.CreateLocation(c.Request.Context(), service.LocationInput{
		Name:        req.Name,
		Type:        domain.LocationType(req.Type),
		Description: req.Description,
		Zone:        req.Zone,
		ExtraData:   req.ExtraData,
	})
	if err != nil {
		respondWithError(c, err, "Failed to create location.")
		return
	}
	c.JSON(http.StatusCreated, MapLocationToResponse(location))
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := pathID(c, "locationId", "location")
	if !ok {
		return
	}
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := service.LocationUpdate{
		Name:        req.Name,
		Description: req.Description,
		Zone:        req.Zone,
		ExtraData:   req.ExtraData,
	}
	if req.Type != nil {
		t := domain.LocationType(*req.Type)
		in.Type = &t
	}
	location, err := h.locationService.UpdateLocation(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err, "Failed to update location.")
		return
	}
	c.JSON(http.StatusOK, MapLocationToResponse(location))
}

// DeleteLocation godoc
// @Summary Delete a location
// @Description Fails with 400 while plants are still placed in the location.
// @Tags Locations
// @Success 204
// @Failure 400 {object} gin.H "Location still has plants"
// @Failure 404 {object} gin.H "Location not found"
// @Router /locations/{locationId} [delete]
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, ok := pathID(c, "locationId", "location")
	if !ok {
		return
	}
	if err := h.locationService.DeleteLocation(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete location.")
		return
	}
	c.Status(http.StatusNoContent)
}

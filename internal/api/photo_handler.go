package api

import (
	"net/http"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	photoService service.PhotoService
}

func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// --- DTOs ---

type UpdatePhotoRequest struct {
	Caption *string    `json:"caption"`
	TakenAt *time.Time `json:"takenAt"`
}

type PhotoResponse struct {
	ID               string     `json:"id"`
	PlantID          string     `json:"plantId"`
	OriginalFilename string     `json:"originalFilename"`
	FileSize         int64      `json:"fileSize"`
	MimeType         string     `json:"mimeType"`
	Width            *int       `json:"width,omitempty"`
	Height           *int       `json:"height,omitempty"`
	Caption          string     `json:"caption,omitempty"`
	TakenAt          *time.Time `json:"takenAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	FileURL          string     `json:"fileUrl"`
	ThumbnailURL     string     `json:"thumbnailUrl,omitempty"`
}

// MapPhotoToResponse links the file routes instead of exposing storage keys.
func MapPhotoToResponse(p *domain.Photo) PhotoResponse {
	fileURL := "/api/v1/photos/" + p.ID.Hex() + "/file"
	resp := PhotoResponse{
		ID:               p.ID.Hex(),
		PlantID:          p.PlantID.Hex(),
		OriginalFilename: p.OriginalFilename,
		FileSize:         p.FileSize,
		MimeType:         p.MimeType,
		Width:            p.Width,
		Height:           p.Height,
		Caption:          p.Caption,
		TakenAt:          p.TakenAt,
		CreatedAt:        p.CreatedAt,
		FileURL:          fileURL,
	}
	if p.ThumbnailPath != "" {
		resp.ThumbnailURL = fileURL + "?thumbnail=true"
	}
	return resp
}

// --- Handler Methods ---

func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	id, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}
	photo, err := h.photoService.GetPhoto(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve photo.")
		return
	}
	c.JSON(http.StatusOK, MapPhotoToResponse(photo))
}

// GetPhotoFile godoc
// @Summary Download a photo
// @Description Redirects to a temporary download URL for the original or its thumbnail.
// @Tags Photos
// @Param thumbnail query bool false "Serve the thumbnail"
// @Success 307
// @Failure 404 {object} gin.H "Photo not found"
// @Router /photos/{photoId}/file [get]
func (h *PhotoHandler) GetPhotoFile(c *gin.Context) {
	id, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}
	thumbnail, ok := queryBool(c, "thumbnail")
	if !ok {
		return
	}
	url, err := h.photoService.PhotoURL(c.Request.Context(), id, thumbnail)
	if err != nil {
		respondWithError(c, err, "Failed to generate download URL.")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	id, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}
	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	photo, err := h.photoService.UpdatePhoto(c.Request.Context(), id, service.PhotoUpdate{Caption: req.Caption, TakenAt: req.TakenAt})
	if err != nil {
		respondWithError(c, err, "Failed to update photo.")
		return
	}
	c.JSON(http.StatusOK, MapPhotoToResponse(photo))
}

func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	id, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}
	if err := h.photoService.DeletePhoto(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "Failed to delete photo.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PhotoHandler) ListPlantPhotos(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	photos, err := h.photoService.ListPlantPhotos(c.Request.Context(), plantID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve photos.")
		return
	}
	resp := make([]PhotoResponse, len(photos))
	for i := range photos {
		resp[i] = MapPhotoToResponse(&photos[i])
	}
	c.JSON(http.StatusOK, resp)
}

// UploadPhoto godoc
// @Summary Upload a photo of a plant
// @Description Accepts jpg, jpeg, png, gif and webp images. A thumbnail is generated.
// @Tags Photos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param caption formData string false "Caption"
// @Param takenAt formData string false "RFC 3339 timestamp"
// @Success 201 {object} PhotoResponse
// @Failure 400 {object} gin.H "Invalid file type, size or image"
// @Failure 404 {object} gin.H "Plant not found"
// @Router /photos/plants/{plantId}/photos [post]
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	plantID, ok := pathID(c, "plantId", "plant")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Form field file is required.")
		return
	}
	in := service.PhotoUpload{
		Filename: header.Filename,
		Caption:  c.PostForm("caption"),
	}
	if raw := c.PostForm("takenAt"); raw != "" {
		takenAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid takenAt, expected an RFC 3339 timestamp.")
			return
		}
		in.TakenAt = &takenAt
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, err, "Failed to read upload.")
		return
	}
	defer file.Close()
	in.Body = file

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), plantID, in)
	if err != nil {
		respondWithError(c, err, "Failed to upload photo.")
		return
	}
	c.JSON(http.StatusCreated, MapPhotoToResponse(photo))
}

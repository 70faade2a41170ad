package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/imaging"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// allowedPhotoTypes maps accepted upload extensions to the content type the
// object is stored with.
var allowedPhotoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var formatMimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// PhotoOptions are the upload limits and presign settings.
type PhotoOptions struct {
	MaxBytes      int64
	MaxPixels     int64
	ThumbnailSize int
	URLExpiry     time.Duration
}

type PhotoUpload struct {
	Filename string
	Body     io.Reader
	Caption  string
	TakenAt  *time.Time
}

// PhotoUpdate carries a partial update; nil fields are left unchanged.
type PhotoUpdate struct {
	Caption *string
	TakenAt *time.Time
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, plantID primitive.ObjectID, in PhotoUpload) (*domain.Photo, error)
	GetPhoto(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error)
	// PhotoURL returns a temporary download URL for the original or the thumbnail.
	PhotoURL(ctx context.Context, id primitive.ObjectID, thumbnail bool) (string, error)
	ListPlantPhotos(ctx context.Context, plantID primitive.ObjectID) ([]domain.Photo, error)
	UpdatePhoto(ctx context.Context, id primitive.ObjectID, in PhotoUpdate) (*domain.Photo, error)
	// DeletePhoto removes the stored objects best-effort, then the record.
	DeletePhoto(ctx context.Context, id primitive.ObjectID) error
}

type photoService struct {
	plantRepo  repository.PlantRepository
	photoRepo  repository.PhotoRepository
	growthRepo repository.GrowthLogRepository
	files      storage.FileStorage
	opts       PhotoOptions
}

func NewPhotoService(plantRepo repository.PlantRepository, photoRepo repository.PhotoRepository, growthRepo repository.GrowthLogRepository, files storage.FileStorage, opts PhotoOptions) PhotoService {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = imaging.DefaultMaxPixels
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = 300
	}
	return &photoService{plantRepo: plantRepo, photoRepo: photoRepo, growthRepo: growthRepo, files: files, opts: opts}
}

func allowedExtensions() string {
	return ".jpg, .jpeg, .png, .gif, .webp"
}

func (s *photoService) UploadPhoto(ctx context.Context, plantID primitive.ObjectID, in PhotoUpload) (*domain.Photo, error) {
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	contentType, ok := allowedPhotoTypes[ext]
	if !ok {
		return nil, invalid("invalid file type, allowed types: %s", allowedExtensions())
	}

	// Read one byte past the limit to detect oversized uploads.
	data, err := io.ReadAll(io.LimitReader(in.Body, s.opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.opts.MaxBytes {
		return nil, invalid("file too large, maximum size: %dMB", s.opts.MaxBytes>>20)
	}

	decoded, err := imaging.Decode(data, s.opts.MaxPixels)
	if errors.Is(err, imaging.ErrTooManyPixels) {
		return nil, invalid("image dimensions too large, maximum %d pixels", s.opts.MaxPixels)
	}
	if err != nil {
		return nil, invalid("file is not a readable image: %v", err)
	}
	if mt, ok := formatMimeTypes[decoded.Format]; ok {
		contentType = mt
	}
	thumb, err := imaging.Thumbnail(decoded.Image, s.opts.ThumbnailSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail: %w", err)
	}

	keys := storage.NewPhotoKeys(plantID.Hex(), ext)
	photo := &domain.Photo{
		PlantID:          plantID,
		FilePath:         keys.Original,
		ThumbnailPath:    keys.Thumbnail,
		OriginalFilename: filepath.Base(in.Filename),
		FileSize:         int64(len(data)),
		MimeType:         contentType,
		Width:            &decoded.Width,
		Height:           &decoded.Height,
		Caption:          in.Caption,
		TakenAt:          utcPtr(in.TakenAt),
	}

	if err := s.files.PutObject(ctx, photo.FilePath, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	if err := s.files.PutObject(ctx, photo.ThumbnailPath, storage.ThumbnailContentType, bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		removePhotoObjects(ctx, s.files, domain.Photo{FilePath: photo.FilePath})
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	if _, err := s.photoRepo.Create(ctx, photo); err != nil {
		removePhotoObjects(ctx, s.files, *photo)
		return nil, err
	}
	return photo, nil
}

func (s *photoService) GetPhoto(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPhotoNotFound)
	}
	return photo, nil
}

func (s *photoService) PhotoURL(ctx context.Context, id primitive.ObjectID, thumbnail bool) (string, error) {
	photo, err := s.GetPhoto(ctx, id)
	if err != nil {
		return "", err
	}
	key := photo.FilePath
	if thumbnail {
		if photo.ThumbnailPath == "" {
			return "", ErrPhotoNotFound
		}
		key = photo.ThumbnailPath
	}
	return s.files.GeneratePresignedDownloadURL(ctx, key, s.opts.URLExpiry)
}

func (s *photoService) ListPlantPhotos(ctx context.Context, plantID primitive.ObjectID) ([]domain.Photo, error) {
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	return s.photoRepo.ListByPlant(ctx, plantID)
}

func (s *photoService) UpdatePhoto(ctx context.Context, id primitive.ObjectID, in PhotoUpdate) (*domain.Photo, error) {
	photo, err := s.GetPhoto(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Caption != nil {
		photo.Caption = *in.Caption
	}
	if in.TakenAt != nil {
		photo.TakenAt = utcPtr(in.TakenAt)
	}
	if err := s.photoRepo.Update(ctx, photo); err != nil {
		return nil, notFoundAs(err, ErrPhotoNotFound)
	}
	return photo, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, id primitive.ObjectID) error {
	photo, err := s.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	removePhotoObjects(ctx, s.files, *photo)
	if err := s.growthRepo.ClearPhoto(ctx, id); err != nil {
		return err
	}
	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrPhotoNotFound)
	}
	log.Printf("INFO: Deleted photo %s of plant %s", id.Hex(), photo.PlantID.Hex())
	return nil
}

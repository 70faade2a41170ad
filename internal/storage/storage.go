package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ThumbnailContentType is the content type of every stored thumbnail.
const ThumbnailContentType = "image/jpeg"

// ErrObjectNotFound is returned when a key does not exist in the store.
var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage holds photo originals and their thumbnails.
type FileStorage interface {
	// PutObject stores size bytes read from body under objectKey.
	PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObjects removes the given keys. Empty keys are ignored; keys that
	// are already gone are not an error.
	DeleteObjects(ctx context.Context, objectKeys ...string) error
}

// PhotoKeys are the object keys of one uploaded photo.
type PhotoKeys struct {
	Original  string
	Thumbnail string
}

// NewPhotoKeys allocates fresh keys for a photo of plantID. ext keeps the
// original file's extension (".png"); thumbnails are always JPEG.
func NewPhotoKeys(plantID, ext string) PhotoKeys {
	name := uuid.NewString()
	return PhotoKeys{
		Original:  path.Join("photos", plantID, name+ext),
		Thumbnail: path.Join("thumbnails", plantID, "thumb_"+name+".jpg"),
	}
}

func nonEmpty(keys []string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

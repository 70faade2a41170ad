package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo stores metadata about a plant picture. The image itself and its
// thumbnail live in object storage under FilePath and ThumbnailPath.
type Photo struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlantID          primitive.ObjectID `bson:"plantId" json:"plantId"`
	FilePath         string             `bson:"filePath" json:"filePath"`
	ThumbnailPath    string             `bson:"thumbnailPath,omitempty" json:"thumbnailPath,omitempty"`
	OriginalFilename string             `bson:"originalFilename" json:"originalFilename"`
	FileSize         int64              `bson:"fileSize" json:"fileSize"`
	MimeType         string             `bson:"mimeType" json:"mimeType"`
	Width            *int               `bson:"width,omitempty" json:"width,omitempty"`
	Height           *int               `bson:"height,omitempty" json:"height,omitempty"`
	Caption          string             `bson:"caption,omitempty" json:"caption,omitempty"`
	TakenAt          *time.Time         `bson:"takenAt,omitempty" json:"takenAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

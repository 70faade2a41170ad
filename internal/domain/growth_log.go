package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

func (h HealthStatus) Valid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair, HealthPoor:
		return true
	}
	return false
}

// GrowthLog is a dated measurement of a plant. PhotoID optionally points at
// a photo of the same plant.
type GrowthLog struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlantID      primitive.ObjectID  `bson:"plantId" json:"plantId"`
	PhotoID      *primitive.ObjectID `bson:"photoId,omitempty" json:"photoId,omitempty"`
	MeasuredAt   time.Time           `bson:"measuredAt" json:"measuredAt"`
	HeightCm     *float64            `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WidthCm      *float64            `bson:"widthCm,omitempty" json:"widthCm,omitempty"`
	HealthStatus HealthStatus        `bson:"healthStatus,omitempty" json:"healthStatus,omitempty"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

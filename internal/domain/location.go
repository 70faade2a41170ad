package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationType tells whether a location is inside or outside.
type LocationType string

const (
	LocationIndoor  LocationType = "indoor"
	LocationOutdoor LocationType = "outdoor"
)

func (t LocationType) Valid() bool {
	return t == LocationIndoor || t == LocationOutdoor
}

// Location groups plants by where they live (a room, a bed, a balcony).
type Location struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name        string                 `bson:"name" json:"name"`
	Type        LocationType           `bson:"type" json:"type"`
	Description string                 `bson:"description,omitempty" json:"description,omitempty"`
	Zone        string                 `bson:"zone,omitempty" json:"zone,omitempty"`
	ExtraData   map[string]interface{} `bson:"extraData,omitempty" json:"extraData,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}

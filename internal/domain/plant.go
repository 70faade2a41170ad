package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlantType mirrors LocationType: indoor or outdoor.
type PlantType string

const (
	PlantIndoor  PlantType = "indoor"
	PlantOutdoor PlantType = "outdoor"
)

func (t PlantType) Valid() bool {
	return t == PlantIndoor || t == PlantOutdoor
}

// PlantCategory is the coarse botanical grouping used for filtering.
type PlantCategory string

const (
	CategoryFlower PlantCategory = "flower"
	CategoryTree   PlantCategory = "tree"
	CategoryGrass  PlantCategory = "grass"
	CategoryOther  PlantCategory = "other"
)

func (c PlantCategory) Valid() bool {
	switch c {
	case CategoryFlower, CategoryTree, CategoryGrass, CategoryOther:
		return true
	}
	return false
}

// Plant is the root entity. It owns its schedules, logs, treatments, photos
// and growth logs; the location reference is weak.
type Plant struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name            string                 `bson:"name" json:"name"`
	ScientificName  string                 `bson:"scientificName,omitempty" json:"scientificName,omitempty"`
	Type            PlantType              `bson:"type" json:"type"`
	Category        PlantCategory          `bson:"category" json:"category"`
	Species         string                 `bson:"species,omitempty" json:"species,omitempty"`
	LocationID      *primitive.ObjectID    `bson:"locationId,omitempty" json:"locationId,omitempty"`
	AcquisitionDate *time.Time             `bson:"acquisitionDate,omitempty" json:"acquisitionDate,omitempty"`
	Notes           string                 `bson:"notes,omitempty" json:"notes,omitempty"`
	ExtraData       map[string]interface{} `bson:"extraData,omitempty" json:"extraData,omitempty"`
	CreatedAt       time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// PlantFilter narrows plant listings. Zero values mean "any".
type PlantFilter struct {
	Type       PlantType
	Category   PlantCategory
	LocationID *primitive.ObjectID
	Skip       int64
	Limit      int64
}

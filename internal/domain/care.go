package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CareKind discriminates the two recurring care actions.
type CareKind string

const (
	CareWatering      CareKind = "watering"
	CareFertilization CareKind = "fertilization"
)

func (k CareKind) Valid() bool {
	return k == CareWatering || k == CareFertilization
}

// CareKinds lists every kind in a stable order.
var CareKinds = []CareKind{CareWatering, CareFertilization}

// CareSchedule says "this plant should receive this care action every
// FrequencyDays days". Watering schedules use Amount and TimeOfDay,
// fertilization schedules use FertilizerType and Amount.
type CareSchedule struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlantID        primitive.ObjectID `bson:"plantId" json:"plantId"`
	Kind           CareKind           `bson:"kind" json:"kind"`
	FrequencyDays  int                `bson:"frequencyDays" json:"frequencyDays"`
	Amount         string             `bson:"amount,omitempty" json:"amount,omitempty"`
	TimeOfDay      string             `bson:"timeOfDay,omitempty" json:"timeOfDay,omitempty"`
	FertilizerType string             `bson:"fertilizerType,omitempty" json:"fertilizerType,omitempty"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CareLog records one completed care action. ScheduleID is a weak
// reference: it is cleared when the schedule goes away and may be nil for
// ad hoc care.
type CareLog struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlantID        primitive.ObjectID  `bson:"plantId" json:"plantId"`
	ScheduleID     *primitive.ObjectID `bson:"scheduleId,omitempty" json:"scheduleId,omitempty"`
	Kind           CareKind            `bson:"kind" json:"kind"`
	OccurredAt     time.Time           `bson:"occurredAt" json:"occurredAt"`
	Amount         string              `bson:"amount,omitempty" json:"amount,omitempty"`
	FertilizerType string              `bson:"fertilizerType,omitempty" json:"fertilizerType,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

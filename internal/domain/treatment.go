package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IssueType string

const (
	IssuePest    IssueType = "pest"
	IssueDisease IssueType = "disease"
)

func (t IssueType) Valid() bool {
	return t == IssuePest || t == IssueDisease
}

type TreatmentType string

const (
	TreatmentChemical   TreatmentType = "chemical"
	TreatmentOrganic    TreatmentType = "organic"
	TreatmentManual     TreatmentType = "manual"
	TreatmentBiological TreatmentType = "biological"
)

func (t TreatmentType) Valid() bool {
	switch t {
	case TreatmentChemical, TreatmentOrganic, TreatmentManual, TreatmentBiological:
		return true
	}
	return false
}

type TreatmentStatus string

const (
	TreatmentActive    TreatmentStatus = "active"
	TreatmentCompleted TreatmentStatus = "completed"
	TreatmentCancelled TreatmentStatus = "cancelled"
)

func (s TreatmentStatus) Valid() bool {
	switch s {
	case TreatmentActive, TreatmentCompleted, TreatmentCancelled:
		return true
	}
	return false
}

// Treatment tracks a pest or disease issue being handled on one plant.
// StartDate and EndDate are calendar dates.
type Treatment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlantID       primitive.ObjectID `bson:"plantId" json:"plantId"`
	IssueType     IssueType          `bson:"issueType" json:"issueType"`
	IssueName     string             `bson:"issueName" json:"issueName"`
	TreatmentType TreatmentType      `bson:"treatmentType" json:"treatmentType"`
	ProductName   string             `bson:"productName,omitempty" json:"productName,omitempty"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status        TreatmentStatus    `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TreatmentApplication is one application of a treatment. PlantID is
// denormalized from the owning treatment for per-plant queries.
type TreatmentApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TreatmentID primitive.ObjectID `bson:"treatmentId" json:"treatmentId"`
	PlantID     primitive.ObjectID `bson:"plantId" json:"plantId"`
	AppliedAt   time.Time          `bson:"appliedAt" json:"appliedAt"`
	Amount      string             `bson:"amount,omitempty" json:"amount,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Overlaps reports whether the treatment should be considered for the
// calendar window [start, end]: its start or end date lies inside the window,
// or it began before the window and has not ended before the window's end.
func (t Treatment) Overlaps(start, end time.Time) bool {
	start, end = DateOf(start), DateOf(end)
	s := DateOf(t.StartDate)
	if !s.Before(start) && !s.After(end) {
		return true
	}
	if t.EndDate != nil {
		e := DateOf(*t.EndDate)
		if !e.Before(start) && !e.After(end) {
			return true
		}
	}
	return !s.After(start) && (t.EndDate == nil || !DateOf(*t.EndDate).Before(end))
}

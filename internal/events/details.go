// Package events turns stored plant records into display events: a
// per-plant timeline of what happened and a cross-plant calendar of what is
// scheduled.
package events

// Kind discriminates event records and their Details payload.
type Kind string

const (
	KindWatering             Kind = "watering"
	KindFertilization        Kind = "fertilization"
	KindTreatmentApplication Kind = "treatment_application"
	KindTreatmentStart       Kind = "treatment_start"
	KindTreatmentEnd         Kind = "treatment_end"
	KindGrowthLog            Kind = "growth_log"
	KindPhoto                Kind = "photo"
)

// Details is the kind-specific payload of an event. Each implementation
// reports the single Kind it belongs to, and builders derive the event's
// Kind from it so the two cannot disagree.
type Details interface {
	Kind() Kind
}

// WateringDetails describes a logged watering.
type WateringDetails struct {
	Amount string `json:"amount,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

func (WateringDetails) Kind() Kind { return KindWatering }

// FertilizationDetails describes a logged fertilization.
type FertilizationDetails struct {
	FertilizerType string `json:"fertilizerType,omitempty"`
	Amount         string `json:"amount,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (FertilizationDetails) Kind() Kind { return KindFertilization }

// ScheduledWateringDetails describes a projected watering on the calendar.
type ScheduledWateringDetails struct {
	FrequencyDays int    `json:"frequencyDays"`
	Amount        string `json:"amount,omitempty"`
}

func (ScheduledWateringDetails) Kind() Kind { return KindWatering }

// ScheduledFertilizationDetails describes a projected fertilization on the
// calendar.
type ScheduledFertilizationDetails struct {
	FrequencyDays  int    `json:"frequencyDays"`
	FertilizerType string `json:"fertilizerType,omitempty"`
}

func (ScheduledFertilizationDetails) Kind() Kind { return KindFertilization }

type TreatmentApplicationDetails struct {
	TreatmentID string `json:"treatmentId"`
	IssueType   string `json:"issueType"`
	IssueName   string `json:"issueName"`
	ProductName string `json:"productName,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (TreatmentApplicationDetails) Kind() Kind { return KindTreatmentApplication }

type TreatmentStartDetails struct {
	TreatmentID   string `json:"treatmentId"`
	IssueType     string `json:"issueType"`
	IssueName     string `json:"issueName"`
	TreatmentType string `json:"treatmentType"`
	ProductName   string `json:"productName,omitempty"`
	Status        string `json:"status"`
}

func (TreatmentStartDetails) Kind() Kind { return KindTreatmentStart }

type TreatmentEndDetails struct {
	TreatmentID string `json:"treatmentId"`
	IssueType   string `json:"issueType"`
	IssueName   string `json:"issueName"`
	ProductName string `json:"productName,omitempty"`
	Status      string `json:"status"`
}

func (TreatmentEndDetails) Kind() Kind { return KindTreatmentEnd }

type GrowthLogDetails struct {
	HeightCm     *float64 `json:"heightCm,omitempty"`
	WidthCm      *float64 `json:"widthCm,omitempty"`
	HealthStatus string   `json:"healthStatus,omitempty"`
	PhotoID      string   `json:"photoId,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

func (GrowthLogDetails) Kind() Kind { return KindGrowthLog }

type PhotoDetails struct {
	PhotoID       string `json:"photoId"`
	Caption       string `json:"caption,omitempty"`
	FilePath      string `json:"filePath"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
}

func (PhotoDetails) Kind() Kind { return KindPhoto }

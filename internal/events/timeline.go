package events

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/domain"
)

// TimelineEvent is one entry of a plant's history.
type TimelineEvent struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Details     Details   `json:"details"`
}

// AppliedTreatment pairs an application with the treatment it belongs to,
// which supplies the display fields.
type AppliedTreatment struct {
	Application domain.TreatmentApplication
	Treatment   domain.Treatment
}

// TimelineSources holds every record of one plant the timeline is built from.
type TimelineSources struct {
	CareLogs     []domain.CareLog
	Applications []AppliedTreatment
	Treatments   []domain.Treatment
	GrowthLogs   []domain.GrowthLog
	Photos       []domain.Photo
}

func newTimelineEvent(id string, at time.Time, title, description string, d Details) TimelineEvent {
	return TimelineEvent{
		ID:          id,
		Kind:        d.Kind(),
		Timestamp:   at,
		Title:       title,
		Description: description,
		Details:     d,
	}
}

// BuildTimeline maps every source record to an event and returns them most
// recent first. Records with equal timestamps keep their source order.
func BuildTimeline(src TimelineSources) []TimelineEvent {
	out := make([]TimelineEvent, 0, len(src.CareLogs)+len(src.Applications)+2*len(src.Treatments)+len(src.GrowthLogs)+len(src.Photos))

	for _, l := range src.CareLogs {
		out = append(out, careLogEvent(l))
	}

	for _, a := range src.Applications {
		t := a.Treatment
		description := "Treating " + t.IssueName
		if t.ProductName != "" {
			description = "Product: " + t.ProductName
		}
		out = append(out, newTimelineEvent(a.Application.ID.Hex(), a.Application.AppliedAt,
			"Treatment Applied: "+t.IssueName, description,
			TreatmentApplicationDetails{
				TreatmentID: t.ID.Hex(),
				IssueType:   string(t.IssueType),
				IssueName:   t.IssueName,
				ProductName: t.ProductName,
				Amount:      a.Application.Amount,
				Notes:       a.Application.Notes,
			}))
	}

	for _, t := range src.Treatments {
		out = append(out, newTimelineEvent(StartEventID(t), domain.DateOf(t.StartDate),
			"Treatment Started: "+t.IssueName,
			fmt.Sprintf("%s - %s", t.IssueType, t.TreatmentType),
			startDetails(t)))
		if t.EndDate != nil {
			out = append(out, newTimelineEvent(EndEventID(t), domain.DateOf(*t.EndDate),
				"Treatment Ended: "+t.IssueName,
				"Status: "+string(t.Status),
				endDetails(t)))
		}
	}

	for _, g := range src.GrowthLogs {
		d := GrowthLogDetails{
			HeightCm:     g.HeightCm,
			WidthCm:      g.WidthCm,
			HealthStatus: string(g.HealthStatus),
			Notes:        g.Notes,
		}
		if g.PhotoID != nil {
			d.PhotoID = g.PhotoID.Hex()
		}
		out = append(out, newTimelineEvent(g.ID.Hex(), g.MeasuredAt, "Growth Measured", growthDescription(g), d))
	}

	for _, p := range src.Photos {
		description := p.Caption
		if description == "" {
			description = "Photo uploaded"
		}
		out = append(out, newTimelineEvent(p.ID.Hex(), p.CreatedAt, "Photo Added", description,
			PhotoDetails{
				PhotoID:       p.ID.Hex(),
				Caption:       p.Caption,
				FilePath:      p.FilePath,
				ThumbnailPath: p.ThumbnailPath,
			}))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func careLogEvent(l domain.CareLog) TimelineEvent {
	if l.Kind == domain.CareFertilization {
		description := "Fertilized"
		if l.FertilizerType != "" {
			description = "Type: " + l.FertilizerType
		}
		return newTimelineEvent(l.ID.Hex(), l.OccurredAt, "Fertilized", description,
			FertilizationDetails{FertilizerType: l.FertilizerType, Amount: l.Amount, Notes: l.Notes})
	}

	description := "Watered"
	if l.Amount != "" {
		description = "Amount: " + l.Amount
	}
	return newTimelineEvent(l.ID.Hex(), l.OccurredAt, "Watered", description,
		WateringDetails{Amount: l.Amount, Notes: l.Notes})
}

func growthDescription(g domain.GrowthLog) string {
	var parts []string
	if g.HeightCm != nil && *g.HeightCm != 0 {
		parts = append(parts, "Height: "+formatCm(*g.HeightCm))
	}
	if g.WidthCm != nil && *g.WidthCm != 0 {
		parts = append(parts, "Width: "+formatCm(*g.WidthCm))
	}

	description := "Measurement recorded"
	if len(parts) > 0 {
		description = strings.Join(parts, ", ")
	}
	if g.HealthStatus != "" {
		s := string(g.HealthStatus)
		description += " - " + strings.ToUpper(s[:1]) + s[1:]
	}
	return description
}

func formatCm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "cm"
}

// StartEventID and EndEventID derive the ids of a treatment's synthetic
// start and end events.
func StartEventID(t domain.Treatment) string { return t.ID.Hex() + "_start" }

func EndEventID(t domain.Treatment) string { return t.ID.Hex() + "_end" }

func startDetails(t domain.Treatment) TreatmentStartDetails {
	return TreatmentStartDetails{
		TreatmentID:   t.ID.Hex(),
		IssueType:     string(t.IssueType),
		IssueName:     t.IssueName,
		TreatmentType: string(t.TreatmentType),
		ProductName:   t.ProductName,
		Status:        string(t.Status),
	}
}

func endDetails(t domain.Treatment) TreatmentEndDetails {
	return TreatmentEndDetails{
		TreatmentID: t.ID.Hex(),
		IssueType:   string(t.IssueType),
		IssueName:   t.IssueName,
		ProductName: t.ProductName,
		Status:      string(t.Status),
	}
}

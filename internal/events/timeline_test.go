package events

import (
	"encoding/json"
	"testing"
	"time"

	"alcyxob/plants-manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func TestBuildTimelineOrdersMostRecentFirst(t *testing.T) {
	plantID := primitive.NewObjectID()
	watering := domain.CareLog{
		ID:         primitive.NewObjectID(),
		PlantID:    plantID,
		Kind:       domain.CareWatering,
		OccurredAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	treatment := domain.Treatment{
		ID:            primitive.NewObjectID(),
		PlantID:       plantID,
		IssueType:     domain.IssuePest,
		IssueName:     "Aphids",
		TreatmentType: domain.TreatmentOrganic,
		StartDate:     day("2024-03-02"),
		EndDate:       dayPtr("2024-03-10"),
		Status:        domain.TreatmentCompleted,
	}

	got := BuildTimeline(TimelineSources{
		CareLogs:   []domain.CareLog{watering},
		Treatments: []domain.Treatment{treatment},
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	want := []struct {
		kind Kind
		id   string
	}{
		{KindTreatmentEnd, treatment.ID.Hex() + "_end"},
		{KindTreatmentStart, treatment.ID.Hex() + "_start"},
		{KindWatering, watering.ID.Hex()},
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].ID != w.id {
			t.Errorf("event %d: expected %s/%s, got %s/%s", i, w.kind, w.id, got[i].Kind, got[i].ID)
		}
	}
	if got[0].Title != "Treatment Ended: Aphids" || got[0].Description != "Status: completed" {
		t.Errorf("unexpected end event text: %q / %q", got[0].Title, got[0].Description)
	}
	if got[1].Description != "pest - organic" {
		t.Errorf("unexpected start description %q", got[1].Description)
	}
}

func TestBuildTimelineEventText(t *testing.T) {
	height, width := 42.5, 30.0
	photoID := primitive.NewObjectID()
	treatment := domain.Treatment{ID: primitive.NewObjectID(), IssueName: "Mildew", IssueType: domain.IssueDisease}

	got := BuildTimeline(TimelineSources{
		CareLogs: []domain.CareLog{
			{ID: primitive.NewObjectID(), Kind: domain.CareWatering, Amount: "500ml", OccurredAt: day("2024-01-07")},
			{ID: primitive.NewObjectID(), Kind: domain.CareFertilization, FertilizerType: "NPK 10-10-10", OccurredAt: day("2024-01-06")},
		},
		Applications: []AppliedTreatment{
			{Application: domain.TreatmentApplication{ID: primitive.NewObjectID(), AppliedAt: day("2024-01-05")}, Treatment: treatment},
		},
		GrowthLogs: []domain.GrowthLog{
			{ID: primitive.NewObjectID(), MeasuredAt: day("2024-01-04"), HeightCm: &height, WidthCm: &width, HealthStatus: domain.HealthGood, PhotoID: &photoID},
			{ID: primitive.NewObjectID(), MeasuredAt: day("2024-01-03")},
		},
		Photos: []domain.Photo{
			{ID: primitive.NewObjectID(), CreatedAt: day("2024-01-02"), Caption: "First bloom"},
			{ID: primitive.NewObjectID(), CreatedAt: day("2024-01-01")},
		},
	})

	want := []struct {
		kind        Kind
		title       string
		description string
	}{
		{KindWatering, "Watered", "Amount: 500ml"},
		{KindFertilization, "Fertilized", "Type: NPK 10-10-10"},
		{KindTreatmentApplication, "Treatment Applied: Mildew", "Treating Mildew"},
		{KindGrowthLog, "Growth Measured", "Height: 42.5cm, Width: 30cm - Good"},
		{KindGrowthLog, "Growth Measured", "Measurement recorded"},
		{KindPhoto, "Photo Added", "First bloom"},
		{KindPhoto, "Photo Added", "Photo uploaded"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i, w := range want {
		e := got[i]
		if e.Kind != w.kind || e.Title != w.title || e.Description != w.description {
			t.Errorf("event %d: expected %s %q %q, got %s %q %q", i, w.kind, w.title, w.description, e.Kind, e.Title, e.Description)
		}
		if e.Details.Kind() != e.Kind {
			t.Errorf("event %d: details kind %s does not match event kind %s", i, e.Details.Kind(), e.Kind)
		}
	}

	g, ok := got[3].Details.(GrowthLogDetails)
	if !ok || g.PhotoID != photoID.Hex() {
		t.Errorf("expected growth details to reference photo %s, got %+v", photoID.Hex(), got[3].Details)
	}
}

func TestBuildTimelineOpenTreatmentHasNoEndEvent(t *testing.T) {
	treatment := domain.Treatment{ID: primitive.NewObjectID(), IssueName: "Scale", StartDate: day("2024-02-01"), Status: domain.TreatmentActive}
	got := BuildTimeline(TimelineSources{Treatments: []domain.Treatment{treatment}})
	if len(got) != 1 || got[0].Kind != KindTreatmentStart {
		t.Fatalf("expected a single start event, got %+v", got)
	}
}

func TestTimelineEventJSON(t *testing.T) {
	ev := BuildTimeline(TimelineSources{CareLogs: []domain.CareLog{
		{ID: primitive.NewObjectID(), Kind: domain.CareWatering, Amount: "1l", OccurredAt: day("2024-01-01")},
	}})[0]

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type    string            `json:"type"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "watering" || decoded.Details["amount"] != "1l" {
		t.Fatalf("unexpected JSON: %s", raw)
	}
}

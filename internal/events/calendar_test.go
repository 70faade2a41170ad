package events

import (
	"testing"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCalendarOpenTreatmentBeforeWindow(t *testing.T) {
	treatment := domain.Treatment{
		ID:        primitive.NewObjectID(),
		PlantID:   primitive.NewObjectID(),
		IssueName: "Spider mites",
		StartDate: day("2024-02-20"),
		Status:    domain.TreatmentActive,
	}
	start, end := day("2024-03-01"), day("2024-03-05")

	if !treatment.Overlaps(start, end) {
		t.Fatal("open-ended treatment started before the window should overlap it")
	}
	if got := BuildCalendar(start, end, nil, []domain.Treatment{treatment}); len(got) != 0 {
		t.Fatalf("expected no calendar events, got %+v", got)
	}
}

func TestBuildCalendarMergesAndSorts(t *testing.T) {
	plantID := primitive.NewObjectID()
	watering := domain.CareSchedule{ID: primitive.NewObjectID(), PlantID: plantID, Kind: domain.CareWatering, FrequencyDays: 3}
	fertilization := domain.CareSchedule{ID: primitive.NewObjectID(), PlantID: plantID, Kind: domain.CareFertilization, FrequencyDays: 14, FertilizerType: "liquid"}
	outside := domain.CareSchedule{ID: primitive.NewObjectID(), PlantID: plantID, Kind: domain.CareWatering, FrequencyDays: 7}

	projected := []schedule.Due{
		{Schedule: watering, NextDate: day("2024-03-04")},
		{Schedule: fertilization, NextDate: day("2024-03-01")},
		{Schedule: outside, NextDate: day("2024-03-09")},
	}
	treatment := domain.Treatment{
		ID:        primitive.NewObjectID(),
		PlantID:   plantID,
		IssueName: "Rust",
		StartDate: day("2024-03-02"),
		EndDate:   dayPtr("2024-03-05"),
	}

	got := BuildCalendar(day("2024-03-01"), day("2024-03-05"), projected, []domain.Treatment{treatment})

	want := []struct {
		kind  Kind
		title string
		date  string
	}{
		{KindFertilization, "Fertilization", "2024-03-01"},
		{KindTreatmentStart, "Treatment Start: Rust", "2024-03-02"},
		{KindWatering, "Watering", "2024-03-04"},
		{KindTreatmentEnd, "Treatment End: Rust", "2024-03-05"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Title != w.title || domain.FormatDate(got[i].Date) != w.date {
			t.Errorf("event %d: expected %s %q %s, got %s %q %s", i, w.kind, w.title, w.date,
				got[i].Kind, got[i].Title, domain.FormatDate(got[i].Date))
		}
	}
	if d, ok := got[0].Details.(ScheduledFertilizationDetails); !ok || d.FertilizerType != "liquid" || d.FrequencyDays != 14 {
		t.Errorf("unexpected fertilization details %+v", got[0].Details)
	}
	if got[2].ID != watering.ID.Hex() || got[2].PlantID != plantID.Hex() {
		t.Errorf("projected event should carry schedule and plant ids, got %+v", got[2])
	}
}

func TestTreatmentOverlaps(t *testing.T) {
	start, end := day("2024-03-01"), day("2024-03-31")
	cases := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"starts inside", "2024-03-10", "", true},
		{"ends inside", "2024-02-01", "2024-03-03", true},
		{"spans window", "2024-02-01", "2024-04-15", true},
		{"open-ended before window", "2024-01-01", "", true},
		{"entirely before", "2024-01-01", "2024-02-28", false},
		{"starts after", "2024-04-01", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := domain.Treatment{StartDate: day(tc.start)}
			if tc.end != "" {
				tr.EndDate = dayPtr(tc.end)
			}
			if got := tr.Overlaps(start, end); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

package schedule

import (
	"testing"
	"time"

	"alcyxob/plants-manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func weekly(start string) domain.CareSchedule {
	return domain.CareSchedule{
		ID:            primitive.NewObjectID(),
		PlantID:       primitive.NewObjectID(),
		Kind:          domain.CareWatering,
		FrequencyDays: 7,
		StartDate:     date(start),
		IsActive:      true,
	}
}

func TestNextOccurrenceInactiveSchedule(t *testing.T) {
	s := weekly("2024-01-01")
	s.IsActive = false
	if next := NextOccurrence(s, nil); next != nil {
		t.Fatalf("expected no projection for inactive schedule, got %v", next)
	}
	log := &domain.CareLog{OccurredAt: date("2024-01-03")}
	if next := NextOccurrence(s, log); next != nil {
		t.Fatalf("expected no projection for inactive schedule with log, got %v", next)
	}
}

func TestNextOccurrenceAnchors(t *testing.T) {
	cases := []struct {
		name  string
		sched func() domain.CareSchedule
		log   *domain.CareLog
		want  *time.Time
	}{
		{
			name:  "no log anchors on start date",
			sched: func() domain.CareSchedule { return weekly("2024-01-01") },
			want:  datePtr("2024-01-08"),
		},
		{
			name:  "latest log anchors projection",
			sched: func() domain.CareSchedule { return weekly("2024-01-01") },
			log:   &domain.CareLog{OccurredAt: time.Date(2024, 1, 5, 18, 45, 0, 0, time.UTC)},
			want:  datePtr("2024-01-12"),
		},
		{
			name:  "future log is not clamped",
			sched: func() domain.CareSchedule { return weekly("2024-01-01") },
			log:   &domain.CareLog{OccurredAt: date("2030-06-01")},
			want:  datePtr("2030-06-08"),
		},
		{
			name: "candidate after end date",
			sched: func() domain.CareSchedule {
				s := weekly("2024-01-01")
				s.EndDate = datePtr("2024-01-07")
				return s
			},
			want: nil,
		},
		{
			name: "candidate on end date is kept",
			sched: func() domain.CareSchedule {
				s := weekly("2024-01-01")
				s.EndDate = datePtr("2024-01-08")
				return s
			},
			want: datePtr("2024-01-08"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextOccurrence(tc.sched(), tc.log)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %s", domain.FormatDate(*got))
			case tc.want != nil && got == nil:
				t.Fatalf("expected %s, got nil", domain.FormatDate(*tc.want))
			case tc.want != nil && !got.Equal(*tc.want):
				t.Fatalf("expected %s, got %s", domain.FormatDate(*tc.want), domain.FormatDate(*got))
			}
		})
	}
}

func TestInEffect(t *testing.T) {
	s := weekly("2024-01-10")
	s.EndDate = datePtr("2024-01-20")

	if InEffect(s, date("2024-01-09")) {
		t.Error("schedule should not be in effect before its start date")
	}
	if !InEffect(s, date("2024-01-10")) || !InEffect(s, date("2024-01-20")) {
		t.Error("schedule bounds should be inclusive")
	}
	if InEffect(s, date("2024-01-21")) {
		t.Error("schedule should not be in effect after its end date")
	}
	s.IsActive = false
	if InEffect(s, date("2024-01-15")) {
		t.Error("inactive schedule should never be in effect")
	}
}

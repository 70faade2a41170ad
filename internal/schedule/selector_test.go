package schedule

import (
	"errors"
	"testing"

	"alcyxob/plants-manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func noLogs(primitive.ObjectID) (*domain.CareLog, error) { return nil, nil }

func TestSelectDueWeeklyExamples(t *testing.T) {
	s := weekly("2024-01-01")

	due, err := SelectDue([]domain.CareSchedule{s}, noLogs, 0, date("2024-01-08"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 || !due[0].NextDate.Equal(date("2024-01-08")) {
		t.Fatalf("expected schedule due on 2024-01-08, got %+v", due)
	}

	due, _ = SelectDue([]domain.CareSchedule{s}, noLogs, -1, date("2024-01-10"))
	if len(due) != 1 {
		t.Fatalf("expected schedule to be selected two days overdue, got %d", len(due))
	}
	if got := due[0].DaysOverdue(date("2024-01-10")); got != 2 {
		t.Fatalf("expected 2 days overdue, got %d", got)
	}

	// Exactly one day late: the selector still returns it, the caller's
	// "more than one day" threshold is what drops it.
	due, _ = SelectDue([]domain.CareSchedule{s}, noLogs, -1, date("2024-01-09"))
	if len(due) != 1 || due[0].DaysOverdue(date("2024-01-09")) != 1 {
		t.Fatalf("expected one schedule exactly 1 day overdue, got %+v", due)
	}

	due, _ = SelectDue([]domain.CareSchedule{s}, noLogs, -2, date("2024-01-09"))
	if len(due) != 0 {
		t.Fatalf("expected nothing with days_ahead=-2 on 2024-01-09, got %d", len(due))
	}
}

func TestSelectDueNeverReturnsFutureForZeroLookahead(t *testing.T) {
	today := date("2024-03-15")
	var schedules []domain.CareSchedule
	for _, start := range []string{"2024-03-01", "2024-03-08", "2024-03-09", "2024-03-14"} {
		schedules = append(schedules, weekly(start))
	}

	due, err := SelectDue(schedules, noLogs, 0, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range due {
		if d.NextDate.After(today) {
			t.Fatalf("schedule projected to %s returned for today %s", domain.FormatDate(d.NextDate), domain.FormatDate(today))
		}
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due schedules, got %d", len(due))
	}
	if !due[0].NextDate.Before(due[1].NextDate) {
		t.Fatalf("expected ascending order, got %s then %s", domain.FormatDate(due[0].NextDate), domain.FormatDate(due[1].NextDate))
	}
}

func TestSelectDueUsesLatestLogAndSkipsOutOfEffect(t *testing.T) {
	today := date("2024-05-20")

	watered := weekly("2024-05-01")
	notStarted := weekly("2024-06-01")
	ended := weekly("2024-04-01")
	ended.EndDate = datePtr("2024-05-01")

	logs := map[primitive.ObjectID]*domain.CareLog{
		watered.PlantID: {OccurredAt: date("2024-05-18")},
	}
	latest := func(id primitive.ObjectID) (*domain.CareLog, error) { return logs[id], nil }

	due, err := SelectDue([]domain.CareSchedule{watered, notStarted, ended}, latest, 7, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 || due[0].Schedule.ID != watered.ID {
		t.Fatalf("expected only the watered schedule, got %+v", due)
	}
	if !due[0].NextDate.Equal(date("2024-05-25")) {
		t.Fatalf("expected next date 2024-05-25, got %s", domain.FormatDate(due[0].NextDate))
	}
}

func TestSelectDueStableOnTies(t *testing.T) {
	a, b, c := weekly("2024-01-01"), weekly("2024-01-01"), weekly("2023-12-31")
	due, _ := SelectDue([]domain.CareSchedule{a, b, c}, noLogs, 0, date("2024-01-10"))
	if len(due) != 3 {
		t.Fatalf("expected 3, got %d", len(due))
	}
	if due[0].Schedule.ID != c.ID || due[1].Schedule.ID != a.ID || due[2].Schedule.ID != b.ID {
		t.Fatal("expected earliest first and ties in input order")
	}
}

func TestSelectDuePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unavailable")
	failing := func(primitive.ObjectID) (*domain.CareLog, error) { return nil, boom }
	if _, err := SelectDue([]domain.CareSchedule{weekly("2024-01-01")}, failing, 0, date("2024-01-08")); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

package schedule

import (
	"sort"
	"time"

	"alcyxob/plants-manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Due pairs a schedule with its projected next date.
type Due struct {
	Schedule domain.CareSchedule
	NextDate time.Time
}

// DaysOverdue is how many days NextDate lies before today (negative when
// it is still ahead).
func (d Due) DaysOverdue(today time.Time) int {
	return domain.DaysBetween(d.NextDate, today)
}

// LatestLogFunc resolves the most recent log of the schedule's kind for a
// plant. It returns nil when the plant has no such log.
type LatestLogFunc func(plantID primitive.ObjectID) (*domain.CareLog, error)

// Project computes the next date of every schedule in effect today.
// Schedules without a further occurrence are left out; input order is kept.
func Project(schedules []domain.CareSchedule, latest LatestLogFunc, today time.Time) ([]Due, error) {
	projected := make([]Due, 0, len(schedules))
	for _, s := range schedules {
		if !InEffect(s, today) {
			continue
		}
		log, err := latest(s.PlantID)
		if err != nil {
			return nil, err
		}
		if next := NextOccurrence(s, log); next != nil {
			projected = append(projected, Due{Schedule: s, NextDate: *next})
		}
	}
	return projected, nil
}

// SelectDue projects every schedule in effect today and keeps those whose
// next date is on or before today + daysAhead, sorted ascending by next date
// (ties keep input order).
//
// daysAhead is signed on purpose. Zero means "due today or earlier", a
// positive value looks ahead, and -K keeps only schedules whose next date
// is at least K days in the past. The notification sweep relies on the
// negative form to find overdue plants.
func SelectDue(schedules []domain.CareSchedule, latest LatestLogFunc, daysAhead int, today time.Time) ([]Due, error) {
	projected, err := Project(schedules, latest, today)
	if err != nil {
		return nil, err
	}

	target := domain.AddDays(today, daysAhead)
	due := projected[:0]
	for _, d := range projected {
		if !d.NextDate.After(target) {
			due = append(due, d)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextDate.Before(due[j].NextDate)
	})
	return due, nil
}

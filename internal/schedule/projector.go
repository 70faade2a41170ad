// Package schedule projects recurring care schedules onto calendar dates
// and selects the schedules that are due around a given day.
//
// Everything here is a pure function of its arguments: callers fetch
// schedules and logs from the store and pass "today" explicitly.
package schedule

import (
	"time"

	"alcyxob/plants-manager/internal/domain"
)

// NextOccurrence returns the next date a schedule should be performed, or
// nil when the schedule has no further occurrence.
//
// The anchor is the date of the latest matching log, or the schedule's start
// date when the plant has never been cared for. The result is
// anchor + FrequencyDays, dropped when it falls after EndDate. No clamping to
// today happens here: a log stamped in the future projects further into the
// future, and deciding what is due is left to the caller.
func NextOccurrence(s domain.CareSchedule, latest *domain.CareLog) *time.Time {
	if !s.IsActive {
		return nil
	}

	anchor := domain.DateOf(s.StartDate)
	if latest != nil {
		anchor = domain.DateOf(latest.OccurredAt)
	}

	next := domain.AddDays(anchor, s.FrequencyDays)
	if s.EndDate != nil && next.After(domain.DateOf(*s.EndDate)) {
		return nil
	}
	return &next
}

// InEffect reports whether a schedule is active and today lies within its
// start/end bounds (both inclusive).
func InEffect(s domain.CareSchedule, today time.Time) bool {
	if !s.IsActive {
		return false
	}
	day := domain.DateOf(today)
	if domain.DateOf(s.StartDate).After(day) {
		return false
	}
	if s.EndDate != nil && domain.DateOf(*s.EndDate).Before(day) {
		return false
	}
	return true
}

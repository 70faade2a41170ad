package events

import (
	"sort"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/schedule"
)

// CalendarEvent is one dated entry of the cross-plant calendar.
type CalendarEvent struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"type"`
	PlantID string    `json:"plantId"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Details Details   `json:"details"`
}

func newCalendarEvent(id, plantID, title string, date time.Time, d Details) CalendarEvent {
	return CalendarEvent{
		ID:      id,
		Kind:    d.Kind(),
		PlantID: plantID,
		Title:   title,
		Date:    domain.DateOf(date),
		Details: d,
	}
}

// BuildCalendar returns the events falling within [start, end], earliest
// first.
//
// Recurring care appears only as its projected next occurrence, never as
// logged history. A treatment contributes a start event and an end event
// when the respective date is in the window, so an open-ended treatment that
// began before the window contributes nothing even though it spans it.
func BuildCalendar(start, end time.Time, projected []schedule.Due, treatments []domain.Treatment) []CalendarEvent {
	start, end = domain.DateOf(start), domain.DateOf(end)
	out := []CalendarEvent{}

	for _, d := range projected {
		if !inRange(d.NextDate, start, end) {
			continue
		}
		s := d.Schedule
		switch s.Kind {
		case domain.CareWatering:
			out = append(out, newCalendarEvent(s.ID.Hex(), s.PlantID.Hex(), "Watering", d.NextDate,
				ScheduledWateringDetails{FrequencyDays: s.FrequencyDays, Amount: s.Amount}))
		case domain.CareFertilization:
			out = append(out, newCalendarEvent(s.ID.Hex(), s.PlantID.Hex(), "Fertilization", d.NextDate,
				ScheduledFertilizationDetails{FrequencyDays: s.FrequencyDays, FertilizerType: s.FertilizerType}))
		}
	}

	for _, t := range treatments {
		if inRange(t.StartDate, start, end) {
			out = append(out, newCalendarEvent(StartEventID(t), t.PlantID.Hex(),
				"Treatment Start: "+t.IssueName, t.StartDate, startDetails(t)))
		}
		if t.EndDate != nil && inRange(*t.EndDate, start, end) {
			out = append(out, newCalendarEvent(EndEventID(t), t.PlantID.Hex(),
				"Treatment End: "+t.IssueName, *t.EndDate, endDetails(t)))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func inRange(d, start, end time.Time) bool {
	d = domain.DateOf(d)
	return !d.Before(start) && !d.After(end)
}

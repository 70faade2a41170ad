package service

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/plants-manager/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlantNotFound        = errors.New("plant not found")
	ErrLocationNotFound     = errors.New("location not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrLogNotFound          = errors.New("log not found")
	ErrTreatmentNotFound    = errors.New("treatment not found")
	ErrPhotoNotFound        = errors.New("photo not found")
	ErrGrowthLogNotFound    = errors.New("growth log not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrValidationFailed = errors.New("validation failed")
	ErrLocationInUse    = fmt.Errorf("%w: location still has plants", ErrValidationFailed)
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrPlantNotFound, ErrLocationNotFound, ErrScheduleNotFound, ErrLogNotFound,
		ErrTreatmentNotFound, ErrPhotoNotFound,
		ErrGrowthLogNotFound, ErrNotificationNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// notFoundAs replaces repository.ErrNotFound with the service-level error.
func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// Timestamps are stored in UTC whatever offset the client sent, so every
// store puts a log on the same calendar day.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func checkDateRange(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return invalid("end date must be on or after start date")
	}
	return nil
}

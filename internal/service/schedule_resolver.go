package service

import (
	"time"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

// defaultWindowDays is the auto-filled publish window length.
const defaultWindowDays = 30

// ScheduleResolution is the resolved status and publish window. End is the
// exclusive boundary: the user-facing end date is inclusive, so the stored
// instant is the start of the following day.
type ScheduleResolution struct {
	Status models.AnnouncementStatus
	Start  time.Time
	End    time.Time
}

// DateOnly truncates an instant to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolveSchedule maps the user's publish choice and date pair onto a status
// and time window. It validates, never coerces: an invalid pair fails with an
// INVALID_SCHEDULE error naming the offending field.
func ResolveSchedule(choice models.PublishChoice, startDate, endDate, now time.Time) (ScheduleResolution, error) {
	today := DateOnly(now)

	switch choice {
	case models.PublishNow:
		if endDate.IsZero() {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "endDate", "end date is required")
		}
		end := DateOnly(endDate)
		if !end.After(today) {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "endDate", "end date must be after today")
		}
		return ScheduleResolution{
			Status: models.AnnouncementStatusPublished,
			Start:  now.UTC(),
			End:    end.AddDate(0, 0, 1),
		}, nil

	case models.PublishLater:
		if startDate.IsZero() {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "startDate", "start date is required")
		}
		if endDate.IsZero() {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "endDate", "end date is required")
		}
		start := DateOnly(startDate)
		end := DateOnly(endDate)
		if start.Before(today.AddDate(0, 0, 1)) {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "startDate", "start date must be tomorrow or later")
		}
		if !end.After(start) {
			return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "endDate", "end date must be after the start date")
		}
		return ScheduleResolution{
			Status: models.AnnouncementStatusScheduled,
			Start:  start,
			End:    end.AddDate(0, 0, 1),
		}, nil

	default:
		return ScheduleResolution{}, appErrors.FieldError(appErrors.ErrInvalidSchedule, "publishChoice", "publish choice is required")
	}
}

// DefaultScheduleDates returns the dates auto-filled when a publish choice is
// selected. NOW leaves the start date unset (publishing is immediate); LATER
// proposes tomorrow plus the default window.
func DefaultScheduleDates(choice models.PublishChoice, now time.Time) (start, end time.Time) {
	today := DateOnly(now)
	switch choice {
	case models.PublishNow:
		return time.Time{}, today.AddDate(0, 0, defaultWindowDays)
	case models.PublishLater:
		tomorrow := today.AddDate(0, 0, 1)
		return tomorrow, tomorrow.AddDate(0, 0, defaultWindowDays)
	default:
		return time.Time{}, time.Time{}
	}
}

// DerivedEndDate re-derives the end date after a start-date change.
func DerivedEndDate(start time.Time) time.Time {
	return DateOnly(start).AddDate(0, 0, defaultWindowDays)
}

// MinimumEndDate is the earliest end date allowed for a given start date.
func MinimumEndDate(start time.Time) time.Time {
	return DateOnly(start).AddDate(0, 0, 1)
}

// DisplayChoice derives the publish choice shown when a stored record is
// loaded into an edit session: NOW when the stored start is today, LATER when
// it is in the future, unset otherwise. The resolver itself always recomputes
// from the user's fresh choices on submit.
func DisplayChoice(storedStart, now time.Time) models.PublishChoice {
	if storedStart.IsZero() {
		return models.PublishUnset
	}
	start := DateOnly(storedStart)
	today := DateOnly(now)
	switch {
	case start.Equal(today):
		return models.PublishNow
	case start.After(today):
		return models.PublishLater
	default:
		return models.PublishUnset
	}
}

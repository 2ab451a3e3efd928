package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

var resolverNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveScheduleNowPublishesImmediately(t *testing.T) {
	res, err := ResolveSchedule(models.PublishNow, time.Time{}, date(2026, 3, 20), resolverNow)
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementStatusPublished, res.Status)
	assert.Equal(t, resolverNow, res.Start)
	// Stored end is exclusive: the day after the user-facing end date.
	assert.Equal(t, date(2026, 3, 21), res.End)
}

func TestResolveScheduleNowRejectsEndToday(t *testing.T) {
	_, err := ResolveSchedule(models.PublishNow, time.Time{}, date(2026, 3, 10), resolverNow)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErrors.FromError(err).Code)
}

func TestResolveScheduleLaterSchedules(t *testing.T) {
	res, err := ResolveSchedule(models.PublishLater, date(2026, 3, 11), date(2026, 3, 25), resolverNow)
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementStatusScheduled, res.Status)
	assert.Equal(t, date(2026, 3, 11), res.Start)
	assert.Equal(t, date(2026, 3, 26), res.End)
}

func TestResolveScheduleLaterRejectsStartToday(t *testing.T) {
	_, err := ResolveSchedule(models.PublishLater, date(2026, 3, 10), date(2026, 3, 25), resolverNow)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "tomorrow")
}

func TestResolveScheduleLaterRejectsEndEqualStart(t *testing.T) {
	_, err := ResolveSchedule(models.PublishLater, date(2026, 3, 15), date(2026, 3, 15), resolverNow)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErrors.FromError(err).Code)
}

func TestResolveScheduleRequiresChoice(t *testing.T) {
	_, err := ResolveSchedule(models.PublishUnset, date(2026, 3, 11), date(2026, 3, 25), resolverNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish choice")
}

func TestResolveScheduleRequiresDates(t *testing.T) {
	_, err := ResolveSchedule(models.PublishNow, time.Time{}, time.Time{}, resolverNow)
	require.Error(t, err)

	_, err = ResolveSchedule(models.PublishLater, time.Time{}, date(2026, 3, 25), resolverNow)
	require.Error(t, err)

	_, err = ResolveSchedule(models.PublishLater, date(2026, 3, 11), time.Time{}, resolverNow)
	require.Error(t, err)
}

func TestDefaultScheduleDates(t *testing.T) {
	start, end := DefaultScheduleDates(models.PublishNow, resolverNow)
	assert.True(t, start.IsZero())
	assert.Equal(t, date(2026, 4, 9), end)

	start, end = DefaultScheduleDates(models.PublishLater, resolverNow)
	assert.Equal(t, date(2026, 3, 11), start)
	assert.Equal(t, date(2026, 4, 10), end)

	start, end = DefaultScheduleDates(models.PublishUnset, resolverNow)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestMinimumEndDate(t *testing.T) {
	assert.Equal(t, date(2026, 3, 12), MinimumEndDate(date(2026, 3, 11)))
}

func TestDisplayChoice(t *testing.T) {
	assert.Equal(t, models.PublishNow, DisplayChoice(resolverNow.Add(-2*time.Hour), resolverNow))
	assert.Equal(t, models.PublishLater, DisplayChoice(date(2026, 3, 15), resolverNow))
	assert.Equal(t, models.PublishUnset, DisplayChoice(date(2026, 3, 1), resolverNow))
	assert.Equal(t, models.PublishUnset, DisplayChoice(time.Time{}, resolverNow))
}

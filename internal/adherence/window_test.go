package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWindow_Day(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w := ResolveWindow("UTC", PeriodDay, now, "UTC")
	assert.Equal(t, date(2024, 3, 15), w.Start)
	assert.Equal(t, date(2024, 3, 15), w.End)
}

func TestResolveWindow_WeekStartsMonday(t *testing.T) {
	// 2024-03-15 is a Friday; the week began Monday 2024-03-11.
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	w := ResolveWindow("UTC", PeriodWeek, now, "UTC")
	assert.Equal(t, date(2024, 3, 11), w.Start)
	assert.Equal(t, date(2024, 3, 15), w.End)
}

func TestResolveWindow_SundayBelongsToPriorWeek(t *testing.T) {
	// 2024-03-17 is a Sunday; it is day 7 of the week starting 2024-03-11.
	now := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)
	w := ResolveWindow("UTC", PeriodWeek, now, "UTC")
	assert.Equal(t, date(2024, 3, 11), w.Start)
	assert.Equal(t, date(2024, 3, 17), w.End)
}

func TestResolveWindow_MonthAndYear(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	w := ResolveWindow("UTC", PeriodMonth, now, "UTC")
	assert.Equal(t, date(2024, 3, 1), w.Start)
	assert.Equal(t, date(2024, 3, 15), w.End)

	w = ResolveWindow("UTC", PeriodYear, now, "UTC")
	assert.Equal(t, date(2024, 1, 1), w.Start)
	assert.Equal(t, date(2024, 3, 15), w.End)
}

func TestResolveWindow_UnknownPeriodTrailingSevenDays(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	w := ResolveWindow("UTC", Period("fortnight"), now, "UTC")
	assert.Equal(t, date(2024, 3, 9), w.Start)
	assert.Equal(t, date(2024, 3, 15), w.End)
}

func TestResolveWindow_TimezoneDecidesToday(t *testing.T) {
	// 2024-03-15 01:30 UTC is still 2024-03-14 in New York.
	now := time.Date(2024, 3, 15, 1, 30, 0, 0, time.UTC)

	utc := ResolveWindow("UTC", PeriodDay, now, "UTC")
	ny := ResolveWindow("America/New_York", PeriodDay, now, "UTC")

	assert.Equal(t, date(2024, 3, 15), utc.Start)
	assert.Equal(t, date(2024, 3, 14), ny.Start)
}

func TestResolveWindow_InvalidTimezoneFallsBackToDefault(t *testing.T) {
	now := time.Date(2024, 6, 1, 1, 30, 0, 0, time.UTC)

	w := ResolveWindow("Not/AZone", PeriodDay, now, "America/New_York")
	// 01:30 UTC on June 1st is the evening of May 31st in New York.
	assert.Equal(t, date(2024, 5, 31), w.Start)

	w = ResolveWindow("", PeriodDay, now, "bogus")
	assert.Equal(t, date(2024, 6, 1), w.Start)
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date(2024, 3, 11), End: date(2024, 3, 15)}
	require.True(t, w.Contains(date(2024, 3, 11)))
	require.True(t, w.Contains(date(2024, 3, 15)))
	require.False(t, w.Contains(date(2024, 3, 10)))
	require.False(t, w.Contains(date(2024, 3, 16)))
}

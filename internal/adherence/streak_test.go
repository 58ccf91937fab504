package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func completions(dates ...time.Time) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[DateKey(d)] = true
	}
	return set
}

func TestCalculateStreak_NoScheduleNoCompletions(t *testing.T) {
	streak := CalculateStreak(date(2024, 1, 9), WeekdaySet(DefaultScheduledWeekdays), map[string]bool{})
	assert.Equal(t, 0, streak)
}

func TestCalculateStreak_TodayCompletedSeedsStreak(t *testing.T) {
	// 2024-01-08 is a Monday.
	today := date(2024, 1, 8)
	scheduled := WeekdaySet([]int{1, 3, 5})
	done := completions(date(2024, 1, 8), date(2024, 1, 5), date(2024, 1, 3), date(2024, 1, 1))

	// Today (Mon) + Fri, Wed, Mon of the prior week.
	assert.Equal(t, 4, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_TodayNotCompletedDoesNotBreak(t *testing.T) {
	// Today is Tue 2024-01-09, a scheduled day with no completion yet;
	// the walk starts from yesterday regardless.
	today := date(2024, 1, 9)
	scheduled := WeekdaySet([]int{1, 2, 3, 4, 5})
	done := completions(date(2024, 1, 8), date(2024, 1, 5))

	assert.Equal(t, 2, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_StopsAtFirstMissedScheduledDay(t *testing.T) {
	// Mon/Wed/Fri schedule, weeks of 2024-01-01 and 2024-01-08. Friday
	// 2024-01-05 was missed; today is Tue 2024-01-09.
	today := date(2024, 1, 9)
	scheduled := WeekdaySet([]int{1, 3, 5})
	done := completions(date(2024, 1, 8), date(2024, 1, 3), date(2024, 1, 1))

	// Only Monday 2024-01-08 counts: the walk stops at the missed Friday.
	assert.Equal(t, 1, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_MissedYesterdayBreaksImmediately(t *testing.T) {
	// Yesterday (Mon 2024-01-08) was scheduled and missed, so earlier
	// completions cannot count.
	today := date(2024, 1, 9)
	scheduled := WeekdaySet([]int{1, 3, 5})
	done := completions(date(2024, 1, 5), date(2024, 1, 3), date(2024, 1, 1))

	assert.Equal(t, 0, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_UnscheduledDaysNeverBreak(t *testing.T) {
	// Weekend between Friday and Monday is skipped without breaking.
	today := date(2024, 1, 8) // Monday
	scheduled := WeekdaySet([]int{1, 3, 5})
	done := completions(date(2024, 1, 5), date(2024, 1, 3))

	assert.Equal(t, 2, CalculateStreak(today, scheduled, done))

	// A completion on an unscheduled Saturday changes nothing.
	done[DateKey(date(2024, 1, 6))] = true
	assert.Equal(t, 2, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_MissedDayKDaysAgo(t *testing.T) {
	// Mon-Fri schedule, every scheduled day completed except 2024-02-14
	// (a Wednesday). Today is Fri 2024-02-23; yesterday back to the miss
	// spans Thu 22, Wed 21, Tue 20, Mon 19, Fri 16, Thu 15.
	today := date(2024, 2, 23)
	scheduled := WeekdaySet(DefaultScheduledWeekdays)
	done := map[string]bool{}
	for d := date(2024, 1, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		if scheduled[int(d.Weekday())] && !d.Equal(date(2024, 2, 14)) {
			done[DateKey(d)] = true
		}
	}

	assert.Equal(t, 6, CalculateStreak(today, scheduled, done))
}

func TestCalculateStreak_WalkCapsAtOneYear(t *testing.T) {
	// Completions every single day for two years must not produce a streak
	// beyond the walk bound (365 walked days + today's seed).
	today := date(2024, 6, 1)
	scheduled := WeekdaySet([]int{0, 1, 2, 3, 4, 5, 6})
	done := map[string]bool{}
	for d := today.AddDate(0, 0, -730); !d.After(today); d = d.AddDate(0, 0, 1) {
		done[DateKey(d)] = true
	}

	assert.Equal(t, 366, CalculateStreak(today, scheduled, done))
}

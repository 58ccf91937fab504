package adherence

import "time"

// DefaultScheduledWeekdays is the Monday-Friday fallback used when a client
// has no configured schedule.
var DefaultScheduledWeekdays = []int{1, 2, 3, 4, 5}

// maxStreakWalkDays bounds the backward walk.
const maxStreakWalkDays = 365

// DateKey formats a calendar date for completion-set lookups.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekdaySet builds the membership set for a list of weekdays (0=Sunday).
func WeekdaySet(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// CalculateStreak computes the current consecutive-adherence streak.
//
// today is the client's current calendar date (UTC midnight); scheduled is
// the set of weekdays workouts are expected on; completed holds DateKey
// entries for every scheduled date with a completion.
//
// If today is a scheduled day and already completed, it seeds the streak.
// The walk then proceeds backward from yesterday: unscheduled days are
// skipped, completed scheduled days extend the streak, and the first
// scheduled day without a completion ends it. Today not yet being completed
// never breaks the streak on its own.
func CalculateStreak(today time.Time, scheduled map[int]bool, completed map[string]bool) int {
	streak := 0
	if scheduled[int(today.Weekday())] && completed[DateKey(today)] {
		streak++
	}

	day := today.AddDate(0, 0, -1)
	for i := 0; i < maxStreakWalkDays; i++ {
		if scheduled[int(day.Weekday())] {
			if !completed[DateKey(day)] {
				break
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

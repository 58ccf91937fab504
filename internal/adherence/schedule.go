package adherence

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
)

// AnnotatedDefinition is a workout definition tagged with the name of the
// program its enrollment belongs to.
type AnnotatedDefinition struct {
	domain.WorkoutDefinition
	ProgramName string
}

// FinisherRef points at the finisher workout attached to a primary.
type FinisherRef struct {
	WorkoutID primitive.ObjectID `json:"workoutId"`
	Name      string             `json:"name"`
}

// ScheduledWorkout is one cell of the schedule grid.
type ScheduledWorkout struct {
	WorkoutID   primitive.ObjectID `json:"workoutId"`
	Name        string             `json:"name"`
	ProgramName string             `json:"programName"`
	Week        int                `json:"week"`
	DayOfWeek   int                `json:"dayOfWeek"`
	Finisher    *FinisherRef       `json:"finisher,omitempty"`
}

// Grid is the projected schedule: week number -> day-of-week (0=Sunday) ->
// scheduled workout. MaxWeek is the highest week number observed across all
// primaries that made it into the grid.
type Grid struct {
	ByWeek  map[int]map[int]ScheduledWorkout
	MaxWeek int
}

// BuildGrid projects workout definitions into a week/day grid. Definitions
// with a parent reference are finishers: the first finisher (in input order)
// for each parent is attached to that primary's cell. Primaries without a
// day-of-week are unscheduled ad-hoc workouts and are excluded.
//
// Input order is significant: callers pass definitions ordered by sequence,
// which makes finisher attachment deterministic.
func BuildGrid(defs []AnnotatedDefinition) Grid {
	finishers := make(map[primitive.ObjectID][]AnnotatedDefinition)
	var primaries []AnnotatedDefinition
	for _, def := range defs {
		if def.IsFinisher() {
			parent := *def.ParentWorkoutID
			finishers[parent] = append(finishers[parent], def)
			continue
		}
		primaries = append(primaries, def)
	}

	grid := Grid{ByWeek: make(map[int]map[int]ScheduledWorkout)}
	for _, p := range primaries {
		if p.DayOfWeek == nil {
			continue
		}
		week := p.EffectiveWeek()
		cell := ScheduledWorkout{
			WorkoutID:   p.ID,
			Name:        p.Name,
			ProgramName: p.ProgramName,
			Week:        week,
			DayOfWeek:   *p.DayOfWeek,
		}
		if attached := finishers[p.ID]; len(attached) > 0 {
			cell.Finisher = &FinisherRef{
				WorkoutID: attached[0].ID,
				Name:      attached[0].Name,
			}
		}
		if grid.ByWeek[week] == nil {
			grid.ByWeek[week] = make(map[int]ScheduledWorkout)
		}
		grid.ByWeek[week][*p.DayOfWeek] = cell
		if week > grid.MaxWeek {
			grid.MaxWeek = week
		}
	}
	return grid
}

// WeekOne returns the week-1 slice of the grid for single-week consumers.
// Never nil.
func (g Grid) WeekOne() map[int]ScheduledWorkout {
	if week := g.ByWeek[1]; week != nil {
		return week
	}
	return map[int]ScheduledWorkout{}
}

// ScheduledWeekdays returns the sorted day-of-week set of the week-1 view.
func (g Grid) ScheduledWeekdays() []int {
	var days []int
	for d := 0; d <= 6; d++ {
		if _, ok := g.ByWeek[1][d]; ok {
			days = append(days, d)
		}
	}
	return days
}

package adherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
)

func intPtr(v int) *int { return &v }

func primaryDef(name string, week int, day *int, seq int) AnnotatedDefinition {
	return AnnotatedDefinition{
		WorkoutDefinition: domain.WorkoutDefinition{
			ID:         primitive.NewObjectID(),
			Name:       name,
			WeekNumber: week,
			DayOfWeek:  day,
			Sequence:   seq,
		},
		ProgramName: "Strength Block",
	}
}

func finisherDef(name string, parent primitive.ObjectID, seq int) AnnotatedDefinition {
	return AnnotatedDefinition{
		WorkoutDefinition: domain.WorkoutDefinition{
			ID:              primitive.NewObjectID(),
			Name:            name,
			Sequence:        seq,
			ParentWorkoutID: &parent,
		},
		ProgramName: "Strength Block",
	}
}

func TestBuildGrid_PlacesPrimariesByWeekAndDay(t *testing.T) {
	defs := []AnnotatedDefinition{
		primaryDef("Upper A", 1, intPtr(1), 0),
		primaryDef("Lower A", 1, intPtr(3), 1),
		primaryDef("Upper B", 2, intPtr(1), 2),
	}

	grid := BuildGrid(defs)

	require.Len(t, grid.ByWeek, 2)
	assert.Equal(t, 2, grid.MaxWeek)
	assert.Equal(t, "Upper A", grid.ByWeek[1][1].Name)
	assert.Equal(t, "Lower A", grid.ByWeek[1][3].Name)
	assert.Equal(t, "Upper B", grid.ByWeek[2][1].Name)
	assert.Equal(t, "Strength Block", grid.ByWeek[1][1].ProgramName)
}

func TestBuildGrid_AttachesFirstFinisherOnly(t *testing.T) {
	primary := primaryDef("Upper A", 1, intPtr(1), 0)
	defs := []AnnotatedDefinition{
		primary,
		finisherDef("Core Finisher", primary.ID, 1),
		finisherDef("Arms Finisher", primary.ID, 2),
	}

	grid := BuildGrid(defs)

	cell := grid.ByWeek[1][1]
	require.NotNil(t, cell.Finisher)
	assert.Equal(t, "Core Finisher", cell.Finisher.Name)
}

func TestBuildGrid_FinishersNeverOccupyCells(t *testing.T) {
	primary := primaryDef("Upper A", 1, intPtr(1), 0)
	fin := finisherDef("Core Finisher", primary.ID, 1)
	// Even a finisher carrying week/day data must not claim a cell.
	fin.WeekNumber = 1
	fin.DayOfWeek = intPtr(2)

	grid := BuildGrid([]AnnotatedDefinition{primary, fin})

	_, occupied := grid.ByWeek[1][2]
	assert.False(t, occupied)
}

func TestBuildGrid_UnscheduledPrimariesExcluded(t *testing.T) {
	defs := []AnnotatedDefinition{
		primaryDef("Ad-hoc Conditioning", 1, nil, 0),
	}

	grid := BuildGrid(defs)

	assert.Empty(t, grid.ByWeek)
	assert.Equal(t, 0, grid.MaxWeek)
	assert.Empty(t, grid.WeekOne())
}

func TestBuildGrid_MissingWeekDefaultsToOne(t *testing.T) {
	defs := []AnnotatedDefinition{
		primaryDef("Upper A", 0, intPtr(5), 0),
	}

	grid := BuildGrid(defs)

	assert.Equal(t, "Upper A", grid.ByWeek[1][5].Name)
	assert.Equal(t, 1, grid.MaxWeek)
}

func TestGrid_ScheduledWeekdays(t *testing.T) {
	defs := []AnnotatedDefinition{
		primaryDef("Fri", 1, intPtr(5), 2),
		primaryDef("Mon", 1, intPtr(1), 0),
		primaryDef("Wed", 1, intPtr(3), 1),
		primaryDef("Week2 Sat", 2, intPtr(6), 3),
	}

	grid := BuildGrid(defs)

	// Week-1 view only, sorted.
	assert.Equal(t, []int{1, 3, 5}, grid.ScheduledWeekdays())
}

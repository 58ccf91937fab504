package adherence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"peakform/coach-app/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func set(weight *float64, reps *int) domain.SetLog {
	return domain.SetLog{Weight: weight, Reps: reps}
}

func TestTonnage_SumsWeightTimesReps(t *testing.T) {
	sets := []domain.SetLog{
		set(floatPtr(100), intPtr(5)),
		set(floatPtr(102.5), intPtr(3)),
		set(floatPtr(60), intPtr(12)),
	}
	// 500 + 307.5 + 720 = 1527.5, rounded to 1528.
	assert.Equal(t, 1528, Tonnage(sets))
}

func TestTonnage_MissingWeightOrRepsCountZero(t *testing.T) {
	sets := []domain.SetLog{
		set(nil, intPtr(10)),
		set(floatPtr(80), nil),
		set(floatPtr(80), intPtr(5)),
	}
	assert.Equal(t, 400, Tonnage(sets))
}

func TestTonnage_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, Tonnage(nil))
	assert.Equal(t, 0, Tonnage([]domain.SetLog{}))
}

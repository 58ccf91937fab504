package adherence

import (
	"math"

	"peakform/coach-app/internal/domain"
)

// Tonnage sums weight x reps across the given set logs, rounded to the
// nearest whole unit. Missing weight or reps count as zero. Callers are
// responsible for passing only sets whose owning completion falls in the
// desired window.
func Tonnage(sets []domain.SetLog) int {
	var total float64
	for _, s := range sets {
		if s.Weight == nil || s.Reps == nil {
			continue
		}
		total += *s.Weight * float64(*s.Reps)
	}
	return int(math.Round(total))
}

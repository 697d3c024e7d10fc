package planner

import (
	"math"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

// Impact normalises a dependents count against the largest count of the
// pending set. maxDependents is floored at 1.
func Impact(dependents, maxDependents int) float64 {
	if maxDependents < 1 {
		maxDependents = 1
	}
	return float64(dependents) / float64(maxDependents)
}

// Proximity rewards courses nominally scheduled sooner. Term 1 courses get a
// larger fixed bonus than later terms. The year factor never goes negative,
// so courses with an unknown year only get the term bonus.
func Proximity(year, term, maxYear int, w Weights) float64 {
	if maxYear < 1 {
		maxYear = 1
	}
	if year < 1 {
		year = 1
	}
	yearFactor := math.Max(0, 1-float64(year-1)/float64(maxYear))
	bonus := w.LaterTermBonus
	if term <= 1 {
		bonus = w.FirstTermBonus
	}
	return yearFactor*w.YearWeight + bonus
}

// Score combines impact and proximity and rounds to two decimals.
func Score(c curriculum.Course, dependents, maxDependents, maxYear int, w Weights) float64 {
	s := Impact(dependents, maxDependents)*w.Impact + Proximity(c.Year, c.Term, maxYear, w)*w.Proximity
	return math.Round(s*100) / 100
}

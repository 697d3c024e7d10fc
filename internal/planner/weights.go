// Package planner orders pending courses into dependency-respecting levels
// and derives progress and validation reports from a completion set.
package planner

import (
	"fmt"
	"math"
	"strings"
)

// Weights is the scoring policy used to order courses within a level.
type Weights struct {
	Name           string  `json:"name"`
	Impact         float64 `json:"impact"`
	Proximity      float64 `json:"proximity"`
	YearWeight     float64 `json:"year_weight"`
	FirstTermBonus float64 `json:"first_term_bonus"`
	LaterTermBonus float64 `json:"later_term_bonus"`
}

// DefaultWeights favours the nominal curriculum sequence (30% impact, 70%
// proximity).
var DefaultWeights = Weights{
	Name:           "default",
	Impact:         0.3,
	Proximity:      0.7,
	YearWeight:     0.8,
	FirstTermBonus: 0.2,
	LaterTermBonus: 0.14,
}

// BalancedWeights gives unblocking and sequence the same weight.
var BalancedWeights = Weights{
	Name:           "balanced",
	Impact:         0.5,
	Proximity:      0.5,
	YearWeight:     0.8,
	FirstTermBonus: 0.2,
	LaterTermBonus: 0.14,
}

// WeightsByName returns a preset policy.
func WeightsByName(name string) (Weights, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DefaultWeights.Name:
		return DefaultWeights, nil
	case BalancedWeights.Name:
		return BalancedWeights, nil
	default:
		return Weights{}, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// WithSplit returns a copy of w using the given impact/proximity split.
func (w Weights) WithSplit(impact, proximity float64) Weights {
	w.Name = "custom"
	w.Impact = impact
	w.Proximity = proximity
	return w
}

// Validate checks that every factor is non-negative and the split is usable.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"impact":           w.Impact,
		"proximity":        w.Proximity,
		"year weight":      w.YearWeight,
		"first term bonus": w.FirstTermBonus,
		"later term bonus": w.LaterTermBonus,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s weight must be a non-negative number, got %v", name, v)
		}
	}
	if w.Impact+w.Proximity == 0 {
		return fmt.Errorf("impact and proximity weights cannot both be zero")
	}
	return nil
}

// Describe returns the human-readable scoring criteria.
func (w Weights) Describe() string {
	return fmt.Sprintf("Kahn + score (%s impact + %s proximity)", percent(w.Impact), percent(w.Proximity))
}

func percent(v float64) string {
	return fmt.Sprintf("%g%%", math.Round(v*1000)/10)
}

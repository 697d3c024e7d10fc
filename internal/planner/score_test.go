package planner

import (
	"math"
	"strings"
	"testing"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestImpact(t *testing.T) {
	tests := []struct {
		deps, max int
		want      float64
	}{
		{0, 0, 0},
		{2, 4, 0.5},
		{3, 3, 1},
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := Impact(tt.deps, tt.max); !approx(got, tt.want) {
			t.Errorf("Impact(%d, %d) = %v, want %v", tt.deps, tt.max, got, tt.want)
		}
	}
}

func TestProximity(t *testing.T) {
	tests := []struct {
		name                string
		year, term, maxYear int
		want                float64
	}{
		{"first year first term", 1, 1, 5, 1.0},
		{"first year second term", 1, 2, 5, 0.94},
		{"last year", 5, 1, 5, 0.2*0.8 + 0.2},
		{"unknown year keeps only the bonus", curriculum.UnknownYear, 1, 5, 0.2},
		{"unknown year later term", curriculum.UnknownYear, 2, 5, 0.14},
		{"zero max year is floored", 1, 1, 0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Proximity(tt.year, tt.term, tt.maxYear, DefaultWeights); !approx(got, tt.want) {
				t.Errorf("Proximity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	course := func(year, term int) curriculum.Course {
		return curriculum.Course{Code: "X", Year: year, Term: term}
	}

	tests := []struct {
		name      string
		c         curriculum.Course
		deps, max int
		maxYear   int
		w         Weights
		want      float64
	}{
		{"root of diamond", course(1, 1), 2, 2, 3, DefaultWeights, 1.0},
		{"second year first term", course(2, 1), 1, 2, 3, DefaultWeights, 0.66},
		{"second year second term", course(2, 2), 1, 2, 3, DefaultWeights, 0.62},
		{"leaf", course(3, 1), 0, 2, 3, DefaultWeights, 0.33},
		{"balanced leaf", course(3, 1), 0, 2, 3, BalancedWeights, 0.23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c, tt.deps, tt.max, tt.maxYear, tt.w); !approx(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Weights
		wantErr bool
	}{
		{"", DefaultWeights, false},
		{"default", DefaultWeights, false},
		{" Balanced ", BalancedWeights, false},
		{"greedy", Weights{}, true},
	}
	for _, tt := range tests {
		got, err := WeightsByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("WeightsByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("WeightsByName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"default", DefaultWeights, false},
		{"balanced", BalancedWeights, false},
		{"custom split", DefaultWeights.WithSplit(1, 0), false},
		{"negative", DefaultWeights.WithSplit(-0.1, 1), true},
		{"nan", DefaultWeights.WithSplit(math.NaN(), 1), true},
		{"inf", DefaultWeights.WithSplit(math.Inf(1), 1), true},
		{"zero split", DefaultWeights.WithSplit(0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.w.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWeightsDescribe(t *testing.T) {
	if got := DefaultWeights.Describe(); got != "Kahn + score (30% impact + 70% proximity)" {
		t.Errorf("Describe() = %q", got)
	}
	if got := BalancedWeights.Describe(); !strings.Contains(got, "50% impact + 50% proximity") {
		t.Errorf("Describe() = %q", got)
	}
	if got := DefaultWeights.WithSplit(0.25, 0.75).Name; got != "custom" {
		t.Errorf("WithSplit().Name = %q, want custom", got)
	}
}

package planner

import (
	"math"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

// Progress summarises how far a student is through a curriculum.
type Progress struct {
	Completed      int `json:"completed"`
	Total          int `json:"total"`
	Percentage     int `json:"percentage"`
	CompletedHours int `json:"completed_hours"`
	TotalHours     int `json:"total_hours"`
	Available      int `json:"available"`
}

// ProgressOf counts completed catalog courses and hours. Identifiers in the
// set that are not catalog courses are ignored.
func ProgressOf(c *curriculum.Catalog, set curriculum.CompletionSet) Progress {
	var p Progress
	for _, course := range c.Courses() {
		p.Total++
		p.TotalHours += course.Hours
		if set.Has(course.ID) {
			p.Completed++
			p.CompletedHours += course.Hours
		}
	}
	p.Available = len(curriculum.Available(c, set))
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

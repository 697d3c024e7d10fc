package planner

import (
	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

// CourseRef is a short reference to a course.
type CourseRef struct {
	ID   curriculum.CourseID `json:"id,omitempty"`
	Code string              `json:"code"`
	Name string              `json:"name,omitempty"`
	Year int                 `json:"year,omitempty"`
}

// CourseAnalysis describes where a course sits in the dependency graph.
type CourseAnalysis struct {
	Course               CourseRef   `json:"course"`
	Hours                int         `json:"hours"`
	Prerequisites        []CourseRef `json:"prerequisites"`
	Unlocks              []CourseRef `json:"unlocks"`
	TransitiveDependents int         `json:"transitive_dependents"`
}

// Analyze lists the prerequisites and direct dependents of a course.
func Analyze(c *curriculum.Catalog, idx *curriculum.DependentsIndex, id curriculum.CourseID) (CourseAnalysis, error) {
	course, ok := c.Course(id)
	if !ok {
		return CourseAnalysis{}, &curriculum.UnknownCourseError{ID: id}
	}

	a := CourseAnalysis{
		Course:               refOf(course),
		Hours:                course.Hours,
		Prerequisites:        []CourseRef{},
		Unlocks:              []CourseRef{},
		TransitiveDependents: len(idx.TransitiveDependents(id)),
	}
	for _, p := range course.Prerequisites {
		if req, ok := c.Course(p.ID); ok && p.Resolved() {
			a.Prerequisites = append(a.Prerequisites, refOf(req))
			continue
		}
		a.Prerequisites = append(a.Prerequisites, CourseRef{Code: p.Code})
	}
	for _, dep := range idx.Dependents(id) {
		if d, ok := c.Course(dep); ok {
			a.Unlocks = append(a.Unlocks, refOf(d))
		}
	}
	return a, nil
}

func refOf(c curriculum.Course) CourseRef {
	return CourseRef{ID: c.ID, Code: c.Code, Name: c.Name, Year: c.Year}
}

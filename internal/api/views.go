package api

import (
	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

type courseView struct {
	ID            curriculum.CourseID `json:"id"`
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	Year          int                 `json:"year"`
	Term          int                 `json:"term"`
	Hours         int                 `json:"hours"`
	Prerequisites []string            `json:"prerequisites"`
}

type courseRef struct {
	ID   curriculum.CourseID `json:"id"`
	Code string              `json:"code"`
	Name string              `json:"name,omitempty"`
}

func courseViews(courses []curriculum.Course) []courseView {
	out := make([]courseView, 0, len(courses))
	for _, c := range courses {
		prereqs := make([]string, 0, len(c.Prerequisites))
		for _, p := range c.Prerequisites {
			prereqs = append(prereqs, p.Code)
		}
		out = append(out, courseView{
			ID:            c.ID,
			Code:          c.Code,
			Name:          c.Name,
			Year:          c.Year,
			Term:          c.Term,
			Hours:         c.Hours,
			Prerequisites: prereqs,
		})
	}
	return out
}

// refViews resolves ids against the catalog. Ids of code-only edges are
// reported with the id as code.
func refViews(c *curriculum.Catalog, ids []curriculum.CourseID) []courseRef {
	if len(ids) == 0 {
		return nil
	}
	out := make([]courseRef, 0, len(ids))
	for _, id := range ids {
		if course, ok := c.Course(id); ok {
			out = append(out, courseRef{ID: id, Code: course.Code, Name: course.Name})
			continue
		}
		out = append(out, courseRef{ID: id, Code: string(id)})
	}
	return out
}

package planner

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

// CycleLevel marks the bucket of courses caught in a prerequisite cycle.
const CycleLevel = -1

// ErrMissingContext is returned when scheduling has no curriculum to plan for.
var ErrMissingContext = errors.New("missing curriculum context")

// ElectiveTerms are matched against folded course names by the elective filter.
var ElectiveTerms = []string{"optativa", "electiva", "elective"}

// Request describes one scheduling run.
type Request struct {
	CurriculumID     string
	Courses          []curriculum.Course
	CompletedCodes   []string
	MaxYear          int
	Weights          Weights
	ExcludeElectives bool
}

// ScheduledCourse is a pending course placed in a level.
type ScheduledCourse struct {
	ID              curriculum.CourseID `json:"id"`
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	Year            int                 `json:"year"`
	Term            int                 `json:"term"`
	Hours           int                 `json:"hours"`
	DependentsCount int                 `json:"dependents_count"`
	Score           float64             `json:"score"`
}

// Level is a tier of courses that can be taken once earlier levels are done.
type Level struct {
	Level   int               `json:"level"`
	Courses []ScheduledCourse `json:"courses"`
}

// Plan is the output of Schedule.
type Plan struct {
	CurriculumID string  `json:"curriculum_id"`
	Levels       []Level `json:"levels"`
	TotalPending int     `json:"total_pending"`
	TotalLevels  int     `json:"total_levels"`
	Criteria     string  `json:"criteria"`
	Note         string  `json:"note"`
}

// HasCycle reports whether the plan ends with a cycle bucket.
func (p *Plan) HasCycle() bool {
	return len(p.Levels) > 0 && p.Levels[len(p.Levels)-1].Level == CycleLevel
}

// IsElective reports whether a course looks like an elective slot.
func IsElective(c curriculum.Course) bool {
	return curriculum.NameContains(c.Name, ElectiveTerms...)
}

type pendingCourse struct {
	course     curriculum.Course
	prereqs    []string // pending prerequisite codes, unique
	dependents []int    // indexes of pending courses requiring this one
	inDegree   int
	scheduled  ScheduledCourse
}

// Schedule orders every pending course into levels with Kahn's algorithm.
// Level 0 holds courses available now; each later level only depends on
// earlier ones. Within a level courses are sorted by score, then code. If a
// prerequisite cycle prevents progress, the remaining courses are emitted as
// a single level CycleLevel.
func Schedule(req Request) (*Plan, error) {
	if strings.TrimSpace(req.CurriculumID) == "" {
		return nil, ErrMissingContext
	}
	w := req.Weights
	if w == (Weights{}) {
		w = DefaultWeights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	pending := collectPending(req)
	plan := &Plan{
		CurriculumID: req.CurriculumID,
		Levels:       []Level{},
		TotalPending: len(pending),
		Criteria:     w.Describe(),
		Note:         "Level 0 = available now. Level N requires completing earlier levels.",
	}
	if len(pending) == 0 {
		return plan, nil
	}

	linkPending(pending)
	scorePending(pending, req.MaxYear, w)

	processed := make([]bool, len(pending))
	remaining := len(pending)
	for level := 0; remaining > 0; level++ {
		var ready []int
		for i, p := range pending {
			if !processed[i] && p.inDegree == 0 {
				ready = append(ready, i)
			}
		}

		if len(ready) == 0 {
			var rest []int
			for i := range pending {
				if !processed[i] {
					rest = append(rest, i)
				}
			}
			slog.Warn("prerequisite cycle detected",
				"curriculum_id", req.CurriculumID,
				"courses", len(rest),
			)
			plan.Levels = append(plan.Levels, buildLevel(CycleLevel, pending, rest))
			break
		}

		plan.Levels = append(plan.Levels, buildLevel(level, pending, ready))
		for _, i := range ready {
			processed[i] = true
			remaining--
		}
		for _, i := range ready {
			for _, d := range pending[i].dependents {
				if pending[d].inDegree > 0 {
					pending[d].inDegree--
				}
			}
		}
	}

	plan.TotalLevels = len(plan.Levels)
	return plan, nil
}

func collectPending(req Request) []*pendingCourse {
	completed := make(map[string]bool, len(req.CompletedCodes))
	for _, code := range req.CompletedCodes {
		completed[strings.TrimSpace(code)] = true
	}

	seen := make(map[string]bool, len(req.Courses))
	var pending []*pendingCourse
	for _, c := range req.Courses {
		code := strings.TrimSpace(c.Code)
		if code == "" {
			slog.Warn("skipping course without code", "curriculum_id", req.CurriculumID, "course_id", c.ID)
			continue
		}
		if completed[code] {
			continue
		}
		if seen[code] {
			slog.Warn("skipping duplicate course code", "curriculum_id", req.CurriculumID, "code", code)
			continue
		}
		if req.ExcludeElectives && IsElective(c) {
			continue
		}
		seen[code] = true
		c.Code = code
		pending = append(pending, &pendingCourse{course: c})
	}
	return pending
}

// linkPending restricts prerequisites to pending codes and fills in-degrees
// and dependents lists.
func linkPending(pending []*pendingCourse) {
	byCode := make(map[string]int, len(pending))
	for i, p := range pending {
		byCode[p.course.Code] = i
	}
	for i, p := range pending {
		seen := make(map[string]bool)
		for _, edge := range p.course.Prerequisites {
			code := strings.TrimSpace(edge.Code)
			j, ok := byCode[code]
			if !ok || j == i || seen[code] {
				continue
			}
			seen[code] = true
			p.prereqs = append(p.prereqs, code)
			pending[j].dependents = append(pending[j].dependents, i)
		}
		p.inDegree = len(p.prereqs)
	}
}

func scorePending(pending []*pendingCourse, maxYear int, w Weights) {
	maxDeps := 1
	horizon := 1
	for _, p := range pending {
		if n := len(p.dependents); n > maxDeps {
			maxDeps = n
		}
		if y := p.course.Year; y != curriculum.UnknownYear && y > horizon {
			horizon = y
		}
	}
	if maxYear <= 0 {
		maxYear = horizon
	}
	for _, p := range pending {
		deps := len(p.dependents)
		p.scheduled = ScheduledCourse{
			ID:              p.course.ID,
			Code:            p.course.Code,
			Name:            p.course.Name,
			Year:            p.course.Year,
			Term:            p.course.Term,
			Hours:           p.course.Hours,
			DependentsCount: deps,
			Score:           Score(p.course, deps, maxDeps, maxYear, w),
		}
	}
}

func buildLevel(n int, pending []*pendingCourse, members []int) Level {
	courses := make([]ScheduledCourse, len(members))
	for i, idx := range members {
		courses[i] = pending[idx].scheduled
	}
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Score != courses[j].Score {
			return courses[i].Score > courses[j].Score
		}
		return courses[i].Code < courses[j].Code
	})
	return Level{Level: n, Courses: courses}
}

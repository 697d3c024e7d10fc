package planner

import (
	"fmt"
	"strings"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

// IssueKind classifies a rejected recommendation.
type IssueKind string

const (
	IssueNotInCatalog         IssueKind = "NOT_IN_CATALOG"
	IssueAlreadyCompleted     IssueKind = "ALREADY_COMPLETED"
	IssueMissingPrerequisites IssueKind = "MISSING_PREREQUISITES"
	IssueInvalidScore         IssueKind = "INVALID_SCORE"
)

// Recommendation is a course proposed to a student, e.g. by an assistant.
type Recommendation struct {
	Code  string   `json:"code"`
	Name  string   `json:"name,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Issue explains why a recommendation was rejected.
type Issue struct {
	Code    string    `json:"code"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationResult splits recommendations into accepted ones and issues.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Accept []Recommendation `json:"accepted"`
	Issues []Issue          `json:"issues"`
}

// ValidateRecommendations checks that every recommended course exists, is
// not completed, is currently available and carries a score in [0, 1].
func ValidateRecommendations(c *curriculum.Catalog, set curriculum.CompletionSet, recs []Recommendation) ValidationResult {
	res := ValidationResult{Accept: []Recommendation{}, Issues: []Issue{}}
	for _, rec := range recs {
		code := strings.TrimSpace(rec.Code)
		course, ok := c.CourseByCode(code)
		switch {
		case !ok:
			res.Issues = append(res.Issues, Issue{
				Code: code, Kind: IssueNotInCatalog,
				Message: fmt.Sprintf("course %s is not part of curriculum %s", code, c.CurriculumID()),
			})
		case set.Has(course.ID):
			res.Issues = append(res.Issues, Issue{
				Code: code, Kind: IssueAlreadyCompleted,
				Message: fmt.Sprintf("course %s is already completed", code),
			})
		case !curriculum.Satisfied(course, set):
			blocking, _ := curriculum.BlockingPrerequisites(c, set, course.ID)
			res.Issues = append(res.Issues, Issue{
				Code: code, Kind: IssueMissingPrerequisites,
				Message: fmt.Sprintf("course %s is missing prerequisites: %s", code, joinCodes(c, blocking)),
			})
		case rec.Score != nil && (*rec.Score < 0 || *rec.Score > 1):
			res.Issues = append(res.Issues, Issue{
				Code: code, Kind: IssueInvalidScore,
				Message: fmt.Sprintf("course %s has score %.2f outside [0, 1]", code, *rec.Score),
			})
		default:
			res.Accept = append(res.Accept, rec)
		}
	}
	res.Valid = len(res.Issues) == 0
	return res
}

func joinCodes(c *curriculum.Catalog, ids []curriculum.CourseID) string {
	codes := make([]string, len(ids))
	for i, id := range ids {
		if course, ok := c.Course(id); ok {
			codes[i] = course.Code
		} else {
			codes[i] = string(id)
		}
	}
	return strings.Join(codes, ", ")
}

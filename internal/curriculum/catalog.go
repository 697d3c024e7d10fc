package curriculum

import (
	"fmt"
	"strconv"
	"strings"
)

// Catalog is the immutable course list of one curriculum.
type Catalog struct {
	curriculumID string
	courses      []Course
	byID         map[CourseID]int
	byCode       map[string]int
	maxYear      int
	maxTerm      int
}

// NewCatalog validates raw course records and builds a catalog. Any record
// missing its id or code, or carrying negative hours, fails the whole build.
func NewCatalog(curriculumID string, raw []RawCourse) (*Catalog, error) {
	c := &Catalog{
		curriculumID: curriculumID,
		courses:      make([]Course, 0, len(raw)),
		byID:         make(map[CourseID]int, len(raw)),
		byCode:       make(map[string]int, len(raw)),
		maxYear:      1,
		maxTerm:      1,
	}

	malformed := func(i int, format string, args ...any) error {
		return &MalformedCatalogError{CurriculumID: curriculumID, Index: i, Reason: fmt.Sprintf(format, args...)}
	}

	for i, r := range raw {
		id := strings.TrimSpace(r.ID)
		code := strings.TrimSpace(r.Code)
		if id == "" {
			return nil, malformed(i, "missing id")
		}
		if code == "" {
			return nil, malformed(i, "course %s: missing code", id)
		}
		if _, dup := c.byID[CourseID(id)]; dup {
			return nil, malformed(i, "duplicate id %s", id)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, malformed(i, "duplicate code %s", code)
		}
		if r.Hours < 0 {
			return nil, malformed(i, "course %s: negative hours %d", code, r.Hours)
		}
		for j, p := range r.Prerequisites {
			if strings.TrimSpace(p.Code) == "" {
				return nil, malformed(i, "course %s: prerequisite %d: missing code", code, j)
			}
		}

		owner := strings.TrimSpace(r.CurriculumID)
		if owner == "" {
			owner = curriculumID
		}
		course := Course{
			ID:           CourseID(id),
			Code:         code,
			Name:         strings.TrimSpace(r.Name),
			Year:         ParseYear(r.Year),
			Term:         ParseTerm(r.Term),
			Hours:        r.Hours,
			CurriculumID: owner,
		}
		if course.Year != UnknownYear && course.Year > c.maxYear {
			c.maxYear = course.Year
		}
		if course.Term > c.maxTerm {
			c.maxTerm = course.Term
		}

		c.byID[course.ID] = len(c.courses)
		c.byCode[course.Code] = len(c.courses)
		c.courses = append(c.courses, course)
	}

	// Edges are resolved once every course is known.
	for i, r := range raw {
		c.courses[i].Prerequisites = c.resolve(c.courses[i], r.Prerequisites)
	}

	return c, nil
}

func (c *Catalog) resolve(owner Course, raw []RawPrerequisite) []Prerequisite {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Prerequisite, 0, len(raw))
	seen := make(map[CourseID]bool, len(raw))
	for _, r := range raw {
		p := Prerequisite{Kind: RefCodeOnly, Code: strings.TrimSpace(r.Code)}
		if idx, ok := c.byID[CourseID(strings.TrimSpace(r.ID))]; ok {
			p = Prerequisite{Kind: RefResolved, ID: c.courses[idx].ID, Code: c.courses[idx].Code}
		} else if idx, ok := c.byCode[p.Code]; ok {
			p = Prerequisite{Kind: RefResolved, ID: c.courses[idx].ID, Code: c.courses[idx].Code}
		}
		if p.Kind == RefResolved && p.ID == owner.ID {
			continue // self-loop
		}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out
}

// CurriculumID returns the curriculum the catalog was built for.
func (c *Catalog) CurriculumID() string {
	return c.curriculumID
}

// Course returns the course with the given id.
func (c *Catalog) Course(id CourseID) (Course, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[idx], true
}

// CourseByCode returns the course with the given code.
func (c *Catalog) CourseByCode(code string) (Course, bool) {
	idx, ok := c.byCode[strings.TrimSpace(code)]
	if !ok {
		return Course{}, false
	}
	return c.courses[idx], true
}

// Courses returns all courses in input order. The slice is a copy.
func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// MaxYear returns the largest known course year, at least 1.
func (c *Catalog) MaxYear() int {
	return c.maxYear
}

// MaxTerm returns the largest course term, at least 1.
func (c *Catalog) MaxTerm() int {
	return c.maxTerm
}

// Codes maps the catalog members of a completion set to their codes, in
// catalog order. Identifiers that are not catalog ids are passed through as
// codes.
func (c *Catalog) Codes(set CompletionSet) []string {
	codes := make([]string, 0, set.Len())
	for _, course := range c.courses {
		if set.Has(course.ID) {
			codes = append(codes, course.Code)
		}
	}
	for _, id := range set.IDs() {
		if _, ok := c.byID[id]; !ok {
			codes = append(codes, string(id))
		}
	}
	return codes
}

// IDsForCodes builds a completion set from course codes. Codes not in the
// catalog are kept verbatim so code-only edges can still match them.
func (c *Catalog) IDsForCodes(codes []string) CompletionSet {
	ids := make([]CourseID, 0, len(codes))
	for _, code := range codes {
		if course, ok := c.CourseByCode(code); ok {
			ids = append(ids, course.ID)
			continue
		}
		if code = strings.TrimSpace(code); code != "" {
			ids = append(ids, CourseID(code))
		}
	}
	return NewCompletionSet(ids...)
}

// ParseYear extracts the first number of a free-text year ("2do año" -> 2).
// Text without a positive number yields UnknownYear.
func ParseYear(s string) int {
	if n, ok := firstNumber(s); ok && n > 0 {
		return n
	}
	return UnknownYear
}

// ParseTerm extracts the first number of a free-text term, defaulting to 1.
func ParseTerm(s string) int {
	if n, ok := firstNumber(s); ok && n > 0 {
		return n
	}
	return 1
}

func firstNumber(s string) (int, bool) {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

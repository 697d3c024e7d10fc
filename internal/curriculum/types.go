package curriculum

// CourseID is the stable identity of a course within a curriculum. It may be a
// surrogate key distinct from the course code.
type CourseID string

// UnknownYear is assigned when a course's year text carries no number.
const UnknownYear = 99

// RefKind tells how a prerequisite edge is matched.
type RefKind int

const (
	// RefResolved edges point at a course present in the catalog and match by ID.
	RefResolved RefKind = iota
	// RefCodeOnly edges could not be resolved and match by code.
	RefCodeOnly
)

func (k RefKind) String() string {
	switch k {
	case RefResolved:
		return "resolved"
	case RefCodeOnly:
		return "code_only"
	default:
		return "unknown"
	}
}

// Prerequisite is a directed edge from a course to a course it requires.
type Prerequisite struct {
	Kind RefKind
	ID   CourseID // set only when Kind == RefResolved
	Code string
}

// Resolved reports whether the edge points at a known catalog course.
func (p Prerequisite) Resolved() bool {
	return p.Kind == RefResolved
}

// Key returns the identifier the edge is matched by in a completion set.
func (p Prerequisite) Key() CourseID {
	if p.Kind == RefResolved {
		return p.ID
	}
	return CourseID(p.Code)
}

// Course is an immutable course of one curriculum.
type Course struct {
	ID            CourseID
	Code          string
	Name          string
	Year          int
	Term          int
	Hours         int
	CurriculumID  string
	Prerequisites []Prerequisite
}

// RawCourse is a course record as supplied by a data provider.
type RawCourse struct {
	ID            string            `yaml:"id" json:"id"`
	Code          string            `yaml:"code" json:"code"`
	Name          string            `yaml:"name" json:"name"`
	Year          string            `yaml:"year" json:"year"`
	Term          string            `yaml:"term" json:"term"`
	Hours         int               `yaml:"hours" json:"hours"`
	CurriculumID  string            `yaml:"curriculum_id" json:"curriculum_id"`
	Prerequisites []RawPrerequisite `yaml:"prerequisites" json:"prerequisites"`
}

// RawPrerequisite is a prerequisite record. Code is authoritative; ID is
// optional and preferred when it resolves.
type RawPrerequisite struct {
	ID   string `yaml:"id" json:"id"`
	Code string `yaml:"code" json:"code"`
}

// CurriculumFile is the on-disk representation of one curriculum.
type CurriculumFile struct {
	ID      string      `yaml:"id" json:"id"`
	Name    string      `yaml:"name" json:"name"`
	MaxYear int         `yaml:"max_year" json:"max_year"`
	Courses []RawCourse `yaml:"courses" json:"courses"`
}

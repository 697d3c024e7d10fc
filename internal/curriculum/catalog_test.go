package curriculum_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

func prereq(codes ...string) []curriculum.RawPrerequisite {
	out := make([]curriculum.RawPrerequisite, len(codes))
	for i, c := range codes {
		out[i] = curriculum.RawPrerequisite{Code: c}
	}
	return out
}

// diamondCourses is A; B and C require A; D requires B and C.
func diamondCourses() []curriculum.RawCourse {
	return []curriculum.RawCourse{
		{ID: "a", Code: "A", Name: "Analisis Matematico I", Year: "1er año", Term: "1", Hours: 96},
		{ID: "b", Code: "B", Name: "Analisis Matematico II", Year: "2do año", Term: "1", Hours: 96, Prerequisites: prereq("A")},
		{ID: "c", Code: "C", Name: "Fisica II", Year: "2do año", Term: "2", Hours: 64, Prerequisites: prereq("A")},
		{ID: "d", Code: "D", Name: "Modelado", Year: "3er año", Term: "", Hours: 64, Prerequisites: prereq("B", "C")},
	}
}

func diamond(t *testing.T) (*curriculum.Catalog, *curriculum.DependentsIndex) {
	t.Helper()
	c, err := curriculum.NewCatalog("isi", diamondCourses())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c, curriculum.BuildDependentsIndex(c)
}

func TestNewCatalog(t *testing.T) {
	c, _ := diamond(t)

	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if c.CurriculumID() != "isi" {
		t.Errorf("CurriculumID() = %q, want isi", c.CurriculumID())
	}
	if c.MaxYear() != 3 {
		t.Errorf("MaxYear() = %d, want 3", c.MaxYear())
	}
	if c.MaxTerm() != 2 {
		t.Errorf("MaxTerm() = %d, want 2", c.MaxTerm())
	}

	d, ok := c.Course("d")
	if !ok {
		t.Fatal("Course(d) not found")
	}
	if d.Year != 3 || d.Term != 1 {
		t.Errorf("D year/term = %d/%d, want 3/1", d.Year, d.Term)
	}
	if d.CurriculumID != "isi" {
		t.Errorf("D.CurriculumID = %q, want isi", d.CurriculumID)
	}
	if len(d.Prerequisites) != 2 {
		t.Fatalf("D prerequisites = %d, want 2", len(d.Prerequisites))
	}
	for _, p := range d.Prerequisites {
		if !p.Resolved() {
			t.Errorf("edge %s should resolve by code", p.Code)
		}
	}

	byCode, ok := c.CourseByCode(" B ")
	if !ok || byCode.ID != "b" {
		t.Errorf("CourseByCode(B) = %v, %v", byCode.ID, ok)
	}

	var order []curriculum.CourseID
	for _, course := range c.Courses() {
		order = append(order, course.ID)
	}
	if !reflect.DeepEqual(order, []curriculum.CourseID{"a", "b", "c", "d"}) {
		t.Errorf("Courses() order = %v", order)
	}
}

func TestNewCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []curriculum.RawCourse
	}{
		{"missing id", []curriculum.RawCourse{{Code: "A"}}},
		{"missing code", []curriculum.RawCourse{{ID: "a"}}},
		{"duplicate id", []curriculum.RawCourse{{ID: "a", Code: "A"}, {ID: "a", Code: "B"}}},
		{"duplicate code", []curriculum.RawCourse{{ID: "a", Code: "A"}, {ID: "b", Code: "A"}}},
		{"negative hours", []curriculum.RawCourse{{ID: "a", Code: "A", Hours: -4}}},
		{"prerequisite without code", []curriculum.RawCourse{{ID: "a", Code: "A", Prerequisites: []curriculum.RawPrerequisite{{ID: "b"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := curriculum.NewCatalog("isi", tt.raw)
			if !errors.Is(err, curriculum.ErrMalformedCatalog) {
				t.Fatalf("NewCatalog() error = %v, want ErrMalformedCatalog", err)
			}
			var mErr *curriculum.MalformedCatalogError
			if !errors.As(err, &mErr) || mErr.CurriculumID != "isi" {
				t.Errorf("error = %#v, want *MalformedCatalogError for isi", err)
			}
		})
	}
}

func TestNewCatalog_EdgeResolution(t *testing.T) {
	c, err := curriculum.NewCatalog("isi", []curriculum.RawCourse{
		{ID: "1", Code: "A"},
		{ID: "2", Code: "B", Prerequisites: []curriculum.RawPrerequisite{
			{ID: "1", Code: "stale"}, // id wins over code
			{Code: "A"},              // duplicate of the first edge
			{Code: "B"},              // self-loop
			{Code: "EXT"},            // not in catalog
		}},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	b, _ := c.Course("2")
	want := []curriculum.Prerequisite{
		{Kind: curriculum.RefResolved, ID: "1", Code: "A"},
		{Kind: curriculum.RefCodeOnly, Code: "EXT"},
	}
	if !reflect.DeepEqual(b.Prerequisites, want) {
		t.Errorf("prerequisites = %+v, want %+v", b.Prerequisites, want)
	}
	if got := b.Prerequisites[1].Key(); got != "EXT" {
		t.Errorf("code-only Key() = %q, want EXT", got)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"2do año", 2},
		{"Año 4", 4},
		{"", curriculum.UnknownYear},
		{"electiva", curriculum.UnknownYear},
		{"0", curriculum.UnknownYear},
	}

	for _, tt := range tests {
		if got := curriculum.ParseYear(tt.in); got != tt.want {
			t.Errorf("ParseYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{"2do cuatrimestre", 2},
		{"anual", 1},
		{"", 1},
	}

	for _, tt := range tests {
		if got := curriculum.ParseTerm(tt.in); got != tt.want {
			t.Errorf("ParseTerm(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCatalog_MaxYearIgnoresUnknown(t *testing.T) {
	c, err := curriculum.NewCatalog("isi", []curriculum.RawCourse{
		{ID: "a", Code: "A", Year: "2"},
		{ID: "b", Code: "B", Year: "sin año"},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if c.MaxYear() != 2 {
		t.Errorf("MaxYear() = %d, want 2", c.MaxYear())
	}

	empty, err := curriculum.NewCatalog("empty", nil)
	if err != nil {
		t.Fatalf("NewCatalog(nil) error = %v", err)
	}
	if empty.MaxYear() != 1 || empty.Len() != 0 {
		t.Errorf("empty catalog MaxYear/Len = %d/%d, want 1/0", empty.MaxYear(), empty.Len())
	}
}

func TestCatalog_CodesRoundTrip(t *testing.T) {
	c, _ := diamond(t)

	set := curriculum.NewCompletionSet("c", "a", "EXT")
	codes := c.Codes(set)
	if !reflect.DeepEqual(codes, []string{"A", "C", "EXT"}) {
		t.Errorf("Codes() = %v, want [A C EXT]", codes)
	}

	back := c.IDsForCodes(codes)
	if !back.Equal(set) {
		t.Errorf("IDsForCodes() = %v, want %v", back.Strings(), set.Strings())
	}
}

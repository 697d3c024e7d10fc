package curriculum_test

import (
	"reflect"
	"testing"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

func TestDependentsIndex(t *testing.T) {
	_, idx := diamond(t)

	tests := []struct {
		id         curriculum.CourseID
		direct     []curriculum.CourseID
		transitive []curriculum.CourseID
	}{
		{"a", []curriculum.CourseID{"b", "c"}, []curriculum.CourseID{"b", "d", "c"}},
		{"b", []curriculum.CourseID{"d"}, []curriculum.CourseID{"d"}},
		{"c", []curriculum.CourseID{"d"}, []curriculum.CourseID{"d"}},
		{"d", nil, nil},
		{"zz", nil, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := idx.Dependents(tt.id); !reflect.DeepEqual(got, tt.direct) {
				t.Errorf("Dependents(%s) = %v, want %v", tt.id, got, tt.direct)
			}
			if got := idx.TransitiveDependents(tt.id); !reflect.DeepEqual(got, tt.transitive) {
				t.Errorf("TransitiveDependents(%s) = %v, want %v", tt.id, got, tt.transitive)
			}
		})
	}
}

func TestDependentsIndex_ReturnsCopy(t *testing.T) {
	_, idx := diamond(t)

	deps := idx.Dependents("a")
	deps[0] = "mutated"

	if got := idx.Dependents("a"); got[0] != "b" {
		t.Errorf("Dependents(a)[0] = %q after caller mutation, want b", got[0])
	}
}

func TestDependentsIndex_Cycle(t *testing.T) {
	c, err := curriculum.NewCatalog("loop", []curriculum.RawCourse{
		{ID: "x", Code: "X", Prerequisites: prereq("Y")},
		{ID: "y", Code: "Y", Prerequisites: prereq("X")},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	idx := curriculum.BuildDependentsIndex(c)

	got := idx.TransitiveDependents("x")
	if !reflect.DeepEqual(got, []curriculum.CourseID{"y"}) {
		t.Errorf("TransitiveDependents(x) = %v, want [y]", got)
	}
}

func TestDependentsIndex_SkipsCodeOnlyEdges(t *testing.T) {
	c, err := curriculum.NewCatalog("ext", []curriculum.RawCourse{
		{ID: "a", Code: "A", Prerequisites: prereq("EXT")},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	idx := curriculum.BuildDependentsIndex(c)

	if got := idx.Dependents("EXT"); got != nil {
		t.Errorf("Dependents(EXT) = %v, want nil", got)
	}
}

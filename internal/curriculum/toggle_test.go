package curriculum_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

func TestToggle_Complete(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a")

	res, err := curriculum.Toggle(c, idx, start, "b")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !res.Completed || res.Rejected {
		t.Errorf("result = %+v, want completed", res)
	}
	if !res.Completion.Equal(curriculum.NewCompletionSet("a", "b")) {
		t.Errorf("completion = %v, want [a b]", res.Completion.Strings())
	}
	if start.Has("b") {
		t.Error("Toggle() mutated its input set")
	}
}

func TestToggle_Rejected(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a")

	res, err := curriculum.Toggle(c, idx, start, "d")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !res.Rejected || res.Completed {
		t.Errorf("result = %+v, want rejected", res)
	}
	if !reflect.DeepEqual(res.Blocking, []curriculum.CourseID{"b", "c"}) {
		t.Errorf("Blocking = %v, want [b c]", res.Blocking)
	}
	if !res.Completion.Equal(start) {
		t.Errorf("completion = %v, want unchanged %v", res.Completion.Strings(), start.Strings())
	}
}

func TestToggle_UncompleteCascades(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a", "b", "c", "d")

	res, err := curriculum.Toggle(c, idx, start, "a")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if res.Completed || res.Rejected {
		t.Errorf("result = %+v, want un-completed", res)
	}
	if res.Completion.Len() != 0 {
		t.Errorf("completion = %v, want empty", res.Completion.Strings())
	}
	if !reflect.DeepEqual(res.Removed, []curriculum.CourseID{"b", "d", "c"}) {
		t.Errorf("Removed = %v, want [b d c]", res.Removed)
	}
	if start.Len() != 4 {
		t.Error("Toggle() mutated its input set")
	}
}

func TestToggle_UncompleteBranch(t *testing.T) {
	c, idx := diamond(t)

	res, err := curriculum.Toggle(c, idx, curriculum.NewCompletionSet("a", "b", "c", "d"), "c")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !res.Completion.Equal(curriculum.NewCompletionSet("a", "b")) {
		t.Errorf("completion = %v, want [a b]", res.Completion.Strings())
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a")

	on, err := curriculum.Toggle(c, idx, start, "b")
	if err != nil {
		t.Fatalf("Toggle(on) error = %v", err)
	}
	off, err := curriculum.Toggle(c, idx, on.Completion, "b")
	if err != nil {
		t.Fatalf("Toggle(off) error = %v", err)
	}
	if !off.Completion.Equal(start) {
		t.Errorf("round trip = %v, want %v", off.Completion.Strings(), start.Strings())
	}
}

func TestToggle_UnknownCourse(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a")

	res, err := curriculum.Toggle(c, idx, start, "zz")
	if !errors.Is(err, curriculum.ErrUnknownCourse) {
		t.Fatalf("Toggle(zz) error = %v, want ErrUnknownCourse", err)
	}
	var uErr *curriculum.UnknownCourseError
	if !errors.As(err, &uErr) || uErr.ID != "zz" {
		t.Errorf("error = %#v, want *UnknownCourseError{zz}", err)
	}
	if !res.Completion.Equal(start) {
		t.Errorf("completion changed on error: %v", res.Completion.Strings())
	}
}

func TestMarkIncomplete_Idempotent(t *testing.T) {
	c, idx := diamond(t)
	start := curriculum.NewCompletionSet("a")

	res, err := curriculum.MarkIncomplete(c, idx, start, "b")
	if err != nil {
		t.Fatalf("MarkIncomplete() error = %v", err)
	}
	if !res.Completion.Equal(start) || len(res.Removed) != 0 {
		t.Errorf("result = %+v, want no-op", res)
	}
}

func TestMarkComplete_AlreadyCompleted(t *testing.T) {
	c, _ := diamond(t)
	start := curriculum.NewCompletionSet("a")

	res, err := curriculum.MarkComplete(c, start, "a")
	if err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}
	if !res.Completed || !res.Completion.Equal(start) {
		t.Errorf("result = %+v, want no-op completion", res)
	}
}

func TestCompletionSet(t *testing.T) {
	s := curriculum.NewCompletionSet("b", "a", "", "a")

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !reflect.DeepEqual(s.Strings(), []string{"a", "b"}) {
		t.Errorf("Strings() = %v, want [a b]", s.Strings())
	}

	with := s.With("c")
	without := s.Without("a")
	if s.Has("c") || !s.Has("a") {
		t.Error("With/Without mutated the receiver")
	}
	if !with.Has("c") || without.Has("a") {
		t.Errorf("With = %v, Without = %v", with.Strings(), without.Strings())
	}

	var zero curriculum.CompletionSet
	if zero.Has("a") || zero.Len() != 0 {
		t.Error("zero set should be empty")
	}
	if !zero.With("a").Has("a") {
		t.Error("zero.With(a) should contain a")
	}
	if !zero.Equal(curriculum.NewCompletionSet()) {
		t.Error("zero set should equal an empty set")
	}
}

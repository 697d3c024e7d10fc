package curriculum

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCatalog is matched by every *MalformedCatalogError.
	ErrMalformedCatalog = errors.New("malformed catalog")
	// ErrUnknownCourse is matched by every *UnknownCourseError.
	ErrUnknownCourse = errors.New("unknown course")
)

// MalformedCatalogError reports the first invalid record of a catalog build.
type MalformedCatalogError struct {
	CurriculumID string
	Index        int
	Reason       string
}

func (e *MalformedCatalogError) Error() string {
	return fmt.Sprintf("malformed catalog %q: record %d: %s", e.CurriculumID, e.Index, e.Reason)
}

func (e *MalformedCatalogError) Is(target error) bool {
	return target == ErrMalformedCatalog
}

// UnknownCourseError reports a course id absent from the catalog.
type UnknownCourseError struct {
	ID CourseID
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("unknown course: %s", e.ID)
}

func (e *UnknownCourseError) Is(target error) bool {
	return target == ErrUnknownCourse
}

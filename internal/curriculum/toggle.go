package curriculum

// ToggleResult is the outcome of a completion change. Completion is always a
// fresh set; when Rejected is true it equals the input.
type ToggleResult struct {
	Completion CompletionSet
	Completed  bool       // true when the course ended up completed
	Rejected   bool       // marking complete was blocked by prerequisites
	Blocking   []CourseID // transitive unsatisfied prerequisites when Rejected
	Removed    []CourseID // dependents dropped by an un-complete cascade
}

// Toggle flips the completion state of id. Completing requires every
// prerequisite to be satisfied; un-completing cascades to all transitive
// dependents.
func Toggle(c *Catalog, idx *DependentsIndex, set CompletionSet, id CourseID) (ToggleResult, error) {
	if set.Has(id) {
		return MarkIncomplete(c, idx, set, id)
	}
	return MarkComplete(c, set, id)
}

// MarkComplete adds id to the set when its prerequisites are satisfied and
// otherwise returns a rejection carrying the blocking prerequisites.
func MarkComplete(c *Catalog, set CompletionSet, id CourseID) (ToggleResult, error) {
	course, ok := c.Course(id)
	if !ok {
		return ToggleResult{Completion: set}, &UnknownCourseError{ID: id}
	}
	if set.Has(id) {
		return ToggleResult{Completion: set.With(), Completed: true}, nil
	}
	if !Satisfied(course, set) {
		blocking, err := BlockingPrerequisites(c, set, id)
		if err != nil {
			return ToggleResult{Completion: set}, err
		}
		return ToggleResult{Completion: set.With(), Rejected: true, Blocking: blocking}, nil
	}
	return ToggleResult{Completion: set.With(id), Completed: true}, nil
}

// MarkIncomplete removes id and every transitive dependent from the set.
// Un-completing a course that is not completed returns an equal set.
func MarkIncomplete(c *Catalog, idx *DependentsIndex, set CompletionSet, id CourseID) (ToggleResult, error) {
	if _, ok := c.Course(id); !ok {
		return ToggleResult{Completion: set}, &UnknownCourseError{ID: id}
	}
	if !set.Has(id) {
		return ToggleResult{Completion: set.With()}, nil
	}

	var removed []CourseID
	for _, dep := range idx.TransitiveDependents(id) {
		if set.Has(dep) {
			removed = append(removed, dep)
		}
	}
	drop := append([]CourseID{id}, removed...)
	return ToggleResult{Completion: set.Without(drop...), Removed: removed}, nil
}

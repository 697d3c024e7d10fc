package curriculum

// Satisfied reports whether every prerequisite edge of course is in set.
func Satisfied(course Course, set CompletionSet) bool {
	for _, p := range course.Prerequisites {
		if !set.Has(p.Key()) {
			return false
		}
	}
	return true
}

// Available returns the ids of courses that are not completed and whose
// prerequisites are all satisfied by set.
func Available(c *Catalog, set CompletionSet) map[CourseID]struct{} {
	out := make(map[CourseID]struct{})
	for _, course := range c.courses {
		if set.Has(course.ID) {
			continue
		}
		if Satisfied(course, set) {
			out[course.ID] = struct{}{}
		}
	}
	return out
}

// AvailableList returns the available courses in catalog order.
func AvailableList(c *Catalog, set CompletionSet) []Course {
	var out []Course
	for _, course := range c.courses {
		if !set.Has(course.ID) && Satisfied(course, set) {
			out = append(out, course)
		}
	}
	return out
}

// IsAvailable reports whether a single course can be taken now.
func IsAvailable(c *Catalog, set CompletionSet, id CourseID) (bool, error) {
	course, ok := c.Course(id)
	if !ok {
		return false, &UnknownCourseError{ID: id}
	}
	return !set.Has(id) && Satisfied(course, set), nil
}

// BlockingPrerequisites returns the transitive closure of unsatisfied
// prerequisites of id, in depth-first discovery order. Completed courses stop
// the walk. Code-only edges contribute their code and are not expanded.
func BlockingPrerequisites(c *Catalog, set CompletionSet, id CourseID) ([]CourseID, error) {
	course, ok := c.Course(id)
	if !ok {
		return nil, &UnknownCourseError{ID: id}
	}

	var out []CourseID
	visited := map[CourseID]bool{id: true}
	stack := unsatisfied(course, set)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		key := p.Key()
		if visited[key] {
			continue
		}
		visited[key] = true
		out = append(out, key)

		if !p.Resolved() {
			continue
		}
		if next, ok := c.Course(p.ID); ok {
			stack = append(stack, unsatisfied(next, set)...)
		}
	}
	return out, nil
}

// unsatisfied returns course's missing edges reversed for stack popping.
func unsatisfied(course Course, set CompletionSet) []Prerequisite {
	var out []Prerequisite
	for i := len(course.Prerequisites) - 1; i >= 0; i-- {
		p := course.Prerequisites[i]
		if !set.Has(p.Key()) {
			out = append(out, p)
		}
	}
	return out
}

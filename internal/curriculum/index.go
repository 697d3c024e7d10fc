package curriculum

// DependentsIndex maps a course to the courses that declare it as a resolved
// prerequisite. It is derived from a catalog and never updated in place.
type DependentsIndex struct {
	dependents map[CourseID][]CourseID
}

// BuildDependentsIndex builds the inverse prerequisite mapping. Lists follow
// catalog order. Code-only edges are not indexed.
func BuildDependentsIndex(c *Catalog) *DependentsIndex {
	idx := &DependentsIndex{dependents: make(map[CourseID][]CourseID)}
	for _, course := range c.courses {
		for _, p := range course.Prerequisites {
			if !p.Resolved() {
				continue
			}
			idx.dependents[p.ID] = append(idx.dependents[p.ID], course.ID)
		}
	}
	return idx
}

// Dependents returns the direct dependents of id.
func (idx *DependentsIndex) Dependents(id CourseID) []CourseID {
	deps := idx.dependents[id]
	if len(deps) == 0 {
		return nil
	}
	out := make([]CourseID, len(deps))
	copy(out, deps)
	return out
}

// TransitiveDependents returns every course that directly or indirectly
// requires id, in depth-first discovery order. id itself is never included.
func (idx *DependentsIndex) TransitiveDependents(id CourseID) []CourseID {
	var out []CourseID
	visited := map[CourseID]bool{id: true}
	stack := reversed(idx.dependents[id])
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		stack = append(stack, reversed(idx.dependents[cur])...)
	}
	return out
}

// reversed copies ids in reverse so popping a stack visits them in order.
func reversed(ids []CourseID) []CourseID {
	out := make([]CourseID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

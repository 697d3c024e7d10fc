package curriculum

import "sort"

// CompletionSet is an immutable set of completed course identifiers. Every
// mutating method returns a new set and leaves the receiver untouched.
type CompletionSet struct {
	ids map[CourseID]struct{}
}

// NewCompletionSet builds a set from ids. Empty ids are ignored.
func NewCompletionSet(ids ...CourseID) CompletionSet {
	m := make(map[CourseID]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return CompletionSet{ids: m}
}

// Has reports whether id is in the set.
func (s CompletionSet) Has(id CourseID) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids.
func (s CompletionSet) Len() int {
	return len(s.ids)
}

// With returns a copy of the set including ids.
func (s CompletionSet) With(ids ...CourseID) CompletionSet {
	out := s.clone(len(ids))
	for _, id := range ids {
		if id != "" {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// Without returns a copy of the set excluding ids.
func (s CompletionSet) Without(ids ...CourseID) CompletionSet {
	out := s.clone(0)
	for _, id := range ids {
		delete(out.ids, id)
	}
	return out
}

// IDs returns the ids sorted lexically.
func (s CompletionSet) IDs() []CourseID {
	out := make([]CourseID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the ids as sorted strings.
func (s CompletionSet) Strings() []string {
	ids := s.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s CompletionSet) Equal(other CompletionSet) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s CompletionSet) clone(extra int) CompletionSet {
	m := make(map[CourseID]struct{}, len(s.ids)+extra)
	for id := range s.ids {
		m[id] = struct{}{}
	}
	return CompletionSet{ids: m}
}

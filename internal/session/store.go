// Package session keeps a student's completion set per curriculum and applies
// planner operations to it.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
)

// ErrMissingStudent is returned when a session key has no student.
var ErrMissingStudent = errors.New("missing student id")

// Key identifies one student's progress in one curriculum.
type Key struct {
	StudentID    string
	CurriculumID string
}

// Validate checks that both parts of the key are present.
func (k Key) Validate() error {
	if k.CurriculumID == "" {
		return planner.ErrMissingContext
	}
	if k.StudentID == "" {
		return ErrMissingStudent
	}
	return nil
}

func (k Key) String() string {
	return k.CurriculumID + "/" + k.StudentID
}

// Store persists completion sets. Save always replaces the whole set.
type Store interface {
	Load(ctx context.Context, key Key) (curriculum.CompletionSet, error)
	Save(ctx context.Context, key Key, set curriculum.CompletionSet) error
	Reset(ctx context.Context, key Key) error
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	sets map[Key]curriculum.CompletionSet
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory completion store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets: make(map[Key]curriculum.CompletionSet),
	}
}

func (s *MemoryStore) Load(_ context.Context, key Key) (curriculum.CompletionSet, error) {
	if err := key.Validate(); err != nil {
		return curriculum.CompletionSet{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[key]
	if !ok {
		return curriculum.NewCompletionSet(), nil
	}
	return set, nil
}

func (s *MemoryStore) Save(_ context.Context, key Key, set curriculum.CompletionSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Sets are immutable, so storing the value is safe.
	s.sets[key] = set
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets, key)
	return nil
}

package session

import (
	"context"
	"fmt"
	"hash/maphash"
	"log/slog"
	"sync"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
)

// CatalogProvider resolves a curriculum by ID.
type CatalogProvider interface {
	Get(id string) (*curriculum.Curriculum, bool)
}

// ServiceConfig holds dependencies for the session service.
type ServiceConfig struct {
	Curricula CatalogProvider
	Store     Store       // default: in-memory
	Events    EventLogger // default: no-op
	Plans     PlanCache   // optional
	Weights   planner.Weights
}

// Service applies planner operations to persisted completion sets.
// Mutations of one session are serialised through a fixed set of striped
// mutexes, so memory does not grow with the number of students.
type Service struct {
	curricula CatalogProvider
	store     Store
	events    EventLogger
	plans     PlanCache
	weights   planner.Weights

	seed  maphash.Seed
	locks [lockStripes]sync.Mutex
}

// lockStripes bounds the number of session mutexes. Keys that hash to the
// same stripe share a mutex.
const lockStripes = 64

// NewService creates a new session service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Curricula == nil {
		return nil, fmt.Errorf("curriculum provider is required")
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	weights := cfg.Weights
	if weights == (planner.Weights{}) {
		weights = planner.DefaultWeights
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		curricula: cfg.Curricula,
		store:     store,
		events:    events,
		plans:     cfg.Plans,
		weights:   weights,
		seed:      maphash.MakeSeed(),
	}, nil
}

// Weights returns the active scoring policy.
func (s *Service) Weights() planner.Weights {
	return s.weights
}

// Curriculum returns a loaded curriculum.
func (s *Service) Curriculum(id string) (*curriculum.Curriculum, error) {
	if id == "" {
		return nil, planner.ErrMissingContext
	}
	cur, ok := s.curricula.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", curriculum.ErrCurriculumNotFound, id)
	}
	return cur, nil
}

// Completion returns the curriculum and the current completion set.
func (s *Service) Completion(ctx context.Context, key Key) (*curriculum.Curriculum, curriculum.CompletionSet, error) {
	if err := key.Validate(); err != nil {
		return nil, curriculum.CompletionSet{}, err
	}
	cur, err := s.Curriculum(key.CurriculumID)
	if err != nil {
		return nil, curriculum.CompletionSet{}, err
	}
	set, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, curriculum.CompletionSet{}, fmt.Errorf("loading completion set: %w", err)
	}
	return cur, set, nil
}

// Available lists the courses the student can take now, in catalog order.
func (s *Service) Available(ctx context.Context, key Key) ([]curriculum.Course, error) {
	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return nil, err
	}
	return curriculum.AvailableList(cur.Catalog, set), nil
}

// Blocking lists the unsatisfied prerequisites, direct and transitive, of a course.
func (s *Service) Blocking(ctx context.Context, key Key, id curriculum.CourseID) ([]curriculum.CourseID, error) {
	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return nil, err
	}
	return curriculum.BlockingPrerequisites(cur.Catalog, set, id)
}

// Toggle flips the completion state of a course and persists the new set.
// A rejected toggle is not an error: the result carries Rejected and the
// blocking prerequisites, and nothing is written.
func (s *Service) Toggle(ctx context.Context, key Key, id curriculum.CourseID) (curriculum.ToggleResult, error) {
	if err := key.Validate(); err != nil {
		return curriculum.ToggleResult{}, err
	}
	unlock := s.lock(key)
	defer unlock()

	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return curriculum.ToggleResult{}, err
	}

	res, err := curriculum.Toggle(cur.Catalog, cur.Index, set, id)
	if err != nil {
		return res, err
	}

	if res.Rejected {
		s.logEvent(key, EventToggleRejected, map[string]any{
			"course_id": string(id),
			"blocking":  len(res.Blocking),
		})
		return res, nil
	}

	if err := s.store.Save(ctx, key, res.Completion); err != nil {
		return curriculum.ToggleResult{Completion: set}, fmt.Errorf("saving completion set: %w", err)
	}

	eventType := EventCourseUncompleted
	if res.Completed {
		eventType = EventCourseCompleted
	}
	s.logEvent(key, eventType, map[string]any{
		"course_id": string(id),
		"removed":   len(res.Removed),
		"completed": res.Completion.Len(),
	})
	return res, nil
}

// Schedule produces the leveled plan for the student's pending courses.
func (s *Service) Schedule(ctx context.Context, key Key, excludeElectives bool) (*planner.Plan, error) {
	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(cur.ID, cur.Version, s.weights, excludeElectives, set)
	if s.plans != nil {
		if plan, ok := s.plans.Get(ctx, fingerprint); ok {
			slog.Debug("plan cache hit", "curriculum_id", cur.ID, "student_id", key.StudentID)
			return plan, nil
		}
	}

	plan, err := planner.Schedule(planner.Request{
		CurriculumID:     cur.ID,
		Courses:          cur.Catalog.Courses(),
		CompletedCodes:   cur.Catalog.Codes(set),
		MaxYear:          cur.MaxYear,
		Weights:          s.weights,
		ExcludeElectives: excludeElectives,
	})
	if err != nil {
		return nil, err
	}

	if s.plans != nil {
		if err := s.plans.Set(ctx, fingerprint, plan); err != nil {
			slog.Warn("failed to cache plan", "curriculum_id", cur.ID, "error", err)
		}
	}
	return plan, nil
}

// Progress summarises the student's completion of the curriculum.
func (s *Service) Progress(ctx context.Context, key Key) (planner.Progress, error) {
	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return planner.Progress{}, err
	}
	return planner.ProgressOf(cur.Catalog, set), nil
}

// Validate checks proposed courses against the student's current state.
func (s *Service) Validate(ctx context.Context, key Key, recs []planner.Recommendation) (planner.ValidationResult, error) {
	cur, set, err := s.Completion(ctx, key)
	if err != nil {
		return planner.ValidationResult{}, err
	}
	return planner.ValidateRecommendations(cur.Catalog, set, recs), nil
}

// Analyze describes a course's position in its curriculum.
func (s *Service) Analyze(curriculumID string, id curriculum.CourseID) (planner.CourseAnalysis, error) {
	cur, err := s.Curriculum(curriculumID)
	if err != nil {
		return planner.CourseAnalysis{}, err
	}
	return planner.Analyze(cur.Catalog, cur.Index, id)
}

// Reset clears the student's completion set.
func (s *Service) Reset(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := s.Curriculum(key.CurriculumID); err != nil {
		return err
	}
	unlock := s.lock(key)
	defer unlock()

	if err := s.store.Reset(ctx, key); err != nil {
		return fmt.Errorf("resetting completion set: %w", err)
	}
	s.logEvent(key, EventPlanReset, nil)
	return nil
}

func (s *Service) lock(key Key) func() {
	m := s.lockFor(key)
	m.Lock()
	return m.Unlock
}

func (s *Service) lockFor(key Key) *sync.Mutex {
	var h maphash.Hash
	h.SetSeed(s.seed)
	h.WriteString(key.CurriculumID)
	h.WriteByte(0)
	h.WriteString(key.StudentID)
	return &s.locks[h.Sum64()%lockStripes]
}

func (s *Service) logEvent(key Key, eventType string, data map[string]any) {
	if err := s.events.LogEvent(Event{
		StudentID:    key.StudentID,
		CurriculumID: key.CurriculumID,
		EventType:    eventType,
		Data:         data,
	}); err != nil {
		slog.Warn("failed to log event", "type", eventType, "error", err)
	}
}

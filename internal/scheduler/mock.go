package scheduler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// SubmittedScore is a score recorded by MockLibrary.
type SubmittedScore struct {
	ExerciseID string
	Score      MasteryScore
}

// MockLibrary is a deterministic Library for testing. Exercises are
// returned from the queue in FIFO order; every call is recorded.
type MockLibrary struct {
	mu sync.Mutex

	RootPath  string
	Exercises []*Exercise
	UnitTypes map[string]UnitType
	Contents  map[string]*Content
	Filters   []SavedFilter
	Manifests map[string]*UnitManifest

	// Graph is written verbatim by ExportGraph.
	Graph string

	// Errors injected per operation name, e.g. "SubmitScore".
	Errors map[string]error

	Calls       []string
	NextFilters []*Filter
	Submitted   []SubmittedScore
	Blacklisted []string
	Reviewed    []string
	History     map[string][]ScoreRecord
	Closed      bool
}

// NewMockLibrary creates a MockLibrary that serves the given exercises.
func NewMockLibrary(exercises ...*Exercise) *MockLibrary {
	m := &MockLibrary{
		RootPath:  "mock",
		Exercises: exercises,
		UnitTypes: make(map[string]UnitType),
		Contents:  make(map[string]*Content),
		Manifests: make(map[string]*UnitManifest),
		Errors:    make(map[string]error),
		History:   make(map[string][]ScoreRecord),
	}
	for _, ex := range exercises {
		m.UnitTypes[ex.ID] = UnitExercise
		m.UnitTypes[ex.LessonID] = UnitLesson
		m.UnitTypes[ex.CourseID] = UnitCourse
	}
	return m
}

func (m *MockLibrary) record(op string) error {
	m.Calls = append(m.Calls, op)
	return m.Errors[op]
}

func (m *MockLibrary) Root() string { return m.RootPath }

func (m *MockLibrary) NextExercise(_ context.Context, filter *Filter) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("NextExercise"); err != nil {
		return nil, err
	}
	m.NextFilters = append(m.NextFilters, filter)
	if len(m.Exercises) == 0 {
		return nil, nil
	}
	ex := m.Exercises[0]
	m.Exercises = m.Exercises[1:]
	return ex, nil
}

func (m *MockLibrary) SubmitScore(_ context.Context, exerciseID string, score MasteryScore, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SubmitScore"); err != nil {
		return err
	}
	m.Submitted = append(m.Submitted, SubmittedScore{ExerciseID: exerciseID, Score: score})
	m.History[exerciseID] = append([]ScoreRecord{{Score: score, Timestamp: at}}, m.History[exerciseID]...)
	return nil
}

func (m *MockLibrary) content(op, unitID string) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(op); err != nil {
		return nil, err
	}
	if _, ok := m.UnitTypes[unitID]; !ok {
		return nil, fmt.Errorf("unit %q: %w", unitID, ErrNotFound)
	}
	return m.Contents[op+":"+unitID], nil
}

func (m *MockLibrary) Instructions(_ context.Context, _ Scope, unitID string) (*Content, error) {
	return m.content("Instructions", unitID)
}

func (m *MockLibrary) Material(_ context.Context, _ Scope, unitID string) (*Content, error) {
	return m.content("Material", unitID)
}

func (m *MockLibrary) Answer(_ context.Context, exerciseID string) (*Content, error) {
	return m.content("Answer", exerciseID)
}

func (m *MockLibrary) AddToBlacklist(_ context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddToBlacklist"); err != nil {
		return err
	}
	m.Blacklisted = append(m.Blacklisted, unitID)
	return nil
}

func (m *MockLibrary) RemoveFromBlacklist(_ context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RemoveFromBlacklist"); err != nil {
		return err
	}
	m.Blacklisted = remove(m.Blacklisted, unitID)
	return nil
}

func (m *MockLibrary) Blacklist(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Blacklist"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.Blacklisted...), nil
}

func (m *MockLibrary) AddToReviewList(_ context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddToReviewList"); err != nil {
		return err
	}
	m.Reviewed = append(m.Reviewed, unitID)
	return nil
}

func (m *MockLibrary) RemoveFromReviewList(_ context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RemoveFromReviewList"); err != nil {
		return err
	}
	m.Reviewed = remove(m.Reviewed, unitID)
	return nil
}

func (m *MockLibrary) ReviewList(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ReviewList"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.Reviewed...), nil
}

func (m *MockLibrary) SavedFilter(_ context.Context, id string) (*SavedFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SavedFilter"); err != nil {
		return nil, err
	}
	for i := range m.Filters {
		if m.Filters[i].ID == id {
			f := m.Filters[i]
			return &f, nil
		}
	}
	return nil, fmt.Errorf("saved filter %q: %w", id, ErrNotFound)
}

func (m *MockLibrary) SavedFilters(_ context.Context) ([]SavedFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SavedFilters"); err != nil {
		return nil, err
	}
	out := append([]SavedFilter(nil), m.Filters...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockLibrary) Scores(_ context.Context, exerciseID string, limit int) ([]ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Scores"); err != nil {
		return nil, err
	}
	if m.UnitTypes[exerciseID] != UnitExercise {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNotFound)
	}
	h := m.History[exerciseID]
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return append([]ScoreRecord(nil), h...), nil
}

func (m *MockLibrary) Units(_ context.Context, kind ListKind, unitID string, _ *Filter) ([]Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Units"); err != nil {
		return nil, err
	}
	var want UnitType
	switch kind {
	case ListCourses, ListMatchingCourses:
		want = UnitCourse
	case ListLessons, ListMatchingLessons:
		want = UnitLesson
	case ListExercises:
		want = UnitExercise
	default:
		return nil, nil
	}
	var out []Unit
	for id, t := range m.UnitTypes {
		if t == want {
			out = append(out, Unit{ID: id, Type: t})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockLibrary) UnitType(_ context.Context, unitID string) (UnitType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UnitType"); err != nil {
		return "", err
	}
	t, ok := m.UnitTypes[unitID]
	if !ok {
		return "", fmt.Errorf("unit %q: %w", unitID, ErrNotFound)
	}
	return t, nil
}

func (m *MockLibrary) UnitManifest(_ context.Context, unitID string) (*UnitManifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UnitManifest"); err != nil {
		return nil, err
	}
	if um, ok := m.Manifests[unitID]; ok {
		return um, nil
	}
	t, ok := m.UnitTypes[unitID]
	if !ok {
		return nil, fmt.Errorf("unit %q: %w", unitID, ErrNotFound)
	}
	return &UnitManifest{ID: unitID, Type: t}, nil
}

func (m *MockLibrary) ExportGraph(_ context.Context, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ExportGraph"); err != nil {
		return err
	}
	_, err := io.WriteString(w, m.Graph)
	return err
}

func (m *MockLibrary) Search(_ context.Context, query string) ([]Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Search"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *MockLibrary) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.record("Close")
}

// MockOpener returns a fixed library per path.
type MockOpener struct {
	Libraries map[string]*MockLibrary
	Err       error
	Opened    []string
}

func (o *MockOpener) Open(_ context.Context, path string) (Library, error) {
	o.Opened = append(o.Opened, path)
	if o.Err != nil {
		return nil, o.Err
	}
	lib, ok := o.Libraries[path]
	if !ok {
		return nil, fmt.Errorf("no library at %q", path)
	}
	return lib, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

package scheduler

import (
	"fmt"
	"time"
)

// UnitType identifies the level of a unit in the course hierarchy.
type UnitType string

const (
	UnitCourse   UnitType = "Course"
	UnitLesson   UnitType = "Lesson"
	UnitExercise UnitType = "Exercise"
)

// Unit is a course, lesson, or exercise identifier together with its type.
type Unit struct {
	ID   string
	Type UnitType
}

// MasteryScore is the self-assessed rating of an exercise, from 1 to 5.
type MasteryScore int

const (
	MinScore MasteryScore = 1
	MaxScore MasteryScore = 5
)

// Valid reports whether the score is within [MinScore, MaxScore].
func (s MasteryScore) Valid() bool {
	return s >= MinScore && s <= MaxScore
}

// ParseMasteryScore converts an integer to a MasteryScore, rejecting
// values outside the 1-5 range.
func ParseMasteryScore(v int) (MasteryScore, error) {
	s := MasteryScore(v)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid score %d: must be between %d and %d", v, MinScore, MaxScore)
	}
	return s, nil
}

// Content is a piece of displayable markdown. Source is the file it was
// read from, empty for inlined content.
type Content struct {
	Text   string
	Source string
}

// Exercise is the snapshot of an exercise returned by the scheduler.
type Exercise struct {
	ID          string
	LessonID    string
	CourseID    string
	Name        string
	Description string
	Type        string

	// Front is the prompt shown to the user.
	Front Content

	// Back is the answer, nil when the exercise has none.
	Back *Content
}

// UnitManifest is the declaration of a unit as read from its manifest.
// Fields that do not apply to the unit's type are empty.
type UnitManifest struct {
	ID           string
	Type         UnitType
	Name         string
	Description  string
	CourseID     string
	LessonID     string
	ExerciseType string
	Authors      []string
	Dependencies []string
	Metadata     map[string][]string

	// Sources lists the unit's content fields in manifest order.
	Sources []ContentSource
}

// ContentSource names where one content field of a manifest comes from.
// Path is empty for inlined markdown.
type ContentSource struct {
	Field string
	Path  string
}

// ScoreRecord is a single historical score for an exercise.
type ScoreRecord struct {
	Score     MasteryScore
	Timestamp time.Time
}

// SavedFilter is a named filter persisted by the scheduler.
type SavedFilter struct {
	ID          string
	Description string
	Filter      Filter
}

// Scope selects which level of material or instructions to show.
type Scope string

const (
	ScopeCourse Scope = "course"
	ScopeLesson Scope = "lesson"
)

// ListKind selects what Units lists.
type ListKind string

const (
	ListCourses         ListKind = "courses"
	ListLessons         ListKind = "lessons"
	ListExercises       ListKind = "exercises"
	ListDependencies    ListKind = "dependencies"
	ListDependents      ListKind = "dependents"
	ListMatchingCourses ListKind = "matching-courses"
	ListMatchingLessons ListKind = "matching-lessons"
)

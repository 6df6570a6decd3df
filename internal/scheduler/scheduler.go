// Package scheduler defines the interface the shell consumes from the
// exercise scheduler. The shell never implements scheduling itself.
package scheduler

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned (wrapped) when a unit, exercise, or saved filter
// does not exist in the opened library.
var ErrNotFound = errors.New("not found")

// Opener opens course libraries.
type Opener interface {
	// Open validates and opens the course library rooted at path.
	Open(ctx context.Context, path string) (Library, error)
}

// Library is an opened course library. Calls are made sequentially by a
// single goroutine.
type Library interface {
	// Root returns the directory the library was opened from.
	Root() string

	// NextExercise returns the next exercise to practice under the given
	// filter (nil means no filter). It returns nil, nil when no exercise
	// is eligible.
	NextExercise(ctx context.Context, filter *Filter) (*Exercise, error)

	// SubmitScore records a mastery score for an exercise.
	SubmitScore(ctx context.Context, exerciseID string, score MasteryScore, at time.Time) error

	// Instructions returns the instructions of a course or lesson, nil when
	// the unit has none.
	Instructions(ctx context.Context, scope Scope, unitID string) (*Content, error)

	// Material returns the material of a course or lesson, nil when the
	// unit has none.
	Material(ctx context.Context, scope Scope, unitID string) (*Content, error)

	// Answer returns the answer of an exercise, nil when it has none.
	Answer(ctx context.Context, exerciseID string) (*Content, error)

	AddToBlacklist(ctx context.Context, unitID string) error
	RemoveFromBlacklist(ctx context.Context, unitID string) error
	Blacklist(ctx context.Context) ([]string, error)

	AddToReviewList(ctx context.Context, unitID string) error
	RemoveFromReviewList(ctx context.Context, unitID string) error
	ReviewList(ctx context.Context) ([]string, error)

	// SavedFilter resolves a saved filter by identifier.
	SavedFilter(ctx context.Context, id string) (*SavedFilter, error)

	// SavedFilters lists all saved filters ordered by identifier.
	SavedFilters(ctx context.Context) ([]SavedFilter, error)

	// Scores returns up to limit most recent scores of an exercise, newest
	// first.
	Scores(ctx context.Context, exerciseID string, limit int) ([]ScoreRecord, error)

	// Units lists units of the given kind. unitID is the parent (lessons,
	// exercises, matching-lessons) or subject (dependencies, dependents);
	// filter applies to the matching-* kinds.
	Units(ctx context.Context, kind ListKind, unitID string, filter *Filter) ([]Unit, error)

	// UnitType returns the type of a unit.
	UnitType(ctx context.Context, unitID string) (UnitType, error)

	// UnitManifest returns the declaration of a unit.
	UnitManifest(ctx context.Context, unitID string) (*UnitManifest, error)

	// ExportGraph writes the course and lesson dependency graph to w in
	// DOT format.
	ExportGraph(ctx context.Context, w io.Writer) error

	// Search returns units whose id, name, or description match the query.
	Search(ctx context.Context, query string) ([]Unit, error)

	// Close releases the library's resources.
	Close() error
}

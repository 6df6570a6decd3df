// Package command parses shell input lines into typed commands.
//
// Every value produced by Parse is syntactically valid: argument counts,
// score ranges, and key:value pairs have been checked. Whether the command
// makes sense in the current session is decided by the dispatcher.
package command

import "github.com/trane-project/trane-cli/internal/scheduler"

// Command is a parsed shell command. The set of implementations is closed.
type Command interface {
	// Name returns the command path as typed by the user, e.g. "filter clear".
	Name() string
	command()
}

// OpenLibrary opens the course library at Path.
type OpenLibrary struct{ Path string }

// Next submits any staged score and shows the next exercise.
type Next struct{}

// Score stages a mastery score for the current exercise.
type Score struct{ Value scheduler.MasteryScore }

// Current shows the current exercise again.
type Current struct{}

// Answer shows the answer of the current exercise.
type Answer struct{}

// Instructions shows course or lesson instructions. An empty UnitID means
// the unit of the current exercise.
type Instructions struct {
	Scope  scheduler.Scope
	UnitID string
}

// Material shows course or lesson material. An empty UnitID means the unit
// of the current exercise.
type Material struct {
	Scope  scheduler.Scope
	UnitID string
}

// FilterMetadata sets an ad-hoc metadata filter.
type FilterMetadata struct {
	Op             scheduler.FilterOp
	CourseMetadata []scheduler.KeyValue
	LessonMetadata []scheduler.KeyValue
}

// FilterCourses restricts exercises to the given courses.
type FilterCourses struct{ IDs []string }

// FilterLessons restricts exercises to the given lessons.
type FilterLessons struct{ IDs []string }

// FilterReviewList restricts exercises to units in the review list.
type FilterReviewList struct{}

// FilterSetSaved activates the saved filter with the given ID.
type FilterSetSaved struct{ ID string }

// FilterListSaved lists saved filters.
type FilterListSaved struct{}

// FilterClear removes the active filter.
type FilterClear struct{}

// FilterShow shows the active filter.
type FilterShow struct{}

// BlacklistAction is a blacklist subcommand.
type BlacklistAction string

const (
	BlacklistAdd      BlacklistAction = "add"
	BlacklistRemove   BlacklistAction = "remove"
	BlacklistShow     BlacklistAction = "show"
	BlacklistCourse   BlacklistAction = "course"
	BlacklistLesson   BlacklistAction = "lesson"
	BlacklistExercise BlacklistAction = "exercise"
)

// Blacklist manipulates the unit blacklist. UnitID is set for add and
// remove only.
type Blacklist struct {
	Action BlacklistAction
	UnitID string
}

// ReviewListAction is a review-list subcommand.
type ReviewListAction string

const (
	ReviewListAdd    ReviewListAction = "add"
	ReviewListRemove ReviewListAction = "remove"
	ReviewListShow   ReviewListAction = "show"
)

// ReviewList manipulates the review list.
type ReviewList struct {
	Action ReviewListAction
	UnitID string
}

// List lists unit identifiers.
type List struct {
	Kind   scheduler.ListKind
	UnitID string
}

// Scores shows the score history of an exercise. An empty ExerciseID means
// the current exercise; a zero Limit means the configured default.
type Scores struct {
	ExerciseID string
	Limit      int
}

// Search looks up units by free-text terms.
type Search struct{ Terms []string }

// UnitInfo shows the type and manifest of a unit.
type UnitInfo struct{ UnitID string }

// UnitType shows only the type of a unit.
type UnitType struct{ UnitID string }

// ExportGraph writes the dependency graph as a DOT file to Path.
type ExportGraph struct{ Path string }

// MantraCount shows the background mantra counter.
type MantraCount struct{}

// Help shows usage. Topic is the command path help was requested for,
// empty for the top level.
type Help struct {
	Topic string
	Text  string
}

// Quit ends the session.
type Quit struct{}

func (OpenLibrary) Name() string      { return "open" }
func (Next) Name() string             { return "next" }
func (Score) Name() string            { return "score" }
func (Current) Name() string          { return "current" }
func (Answer) Name() string           { return "answer" }
func (c Instructions) Name() string   { return "instructions " + string(c.Scope) }
func (c Material) Name() string       { return "material " + string(c.Scope) }
func (FilterMetadata) Name() string   { return "filter metadata" }
func (FilterCourses) Name() string    { return "filter course" }
func (FilterLessons) Name() string    { return "filter lesson" }
func (FilterReviewList) Name() string { return "filter review-list" }
func (FilterSetSaved) Name() string   { return "filter set" }
func (FilterListSaved) Name() string  { return "filter list" }
func (FilterClear) Name() string      { return "filter clear" }
func (FilterShow) Name() string       { return "filter show" }
func (c Blacklist) Name() string      { return "blacklist " + string(c.Action) }
func (c ReviewList) Name() string     { return "review-list " + string(c.Action) }
func (c List) Name() string           { return "list " + string(c.Kind) }
func (Scores) Name() string           { return "scores" }
func (Search) Name() string           { return "search" }
func (UnitInfo) Name() string         { return "debug unit-info" }
func (UnitType) Name() string         { return "debug unit-type" }
func (ExportGraph) Name() string      { return "debug export-graph" }
func (MantraCount) Name() string      { return "mantra-count" }
func (Help) Name() string             { return "help" }
func (Quit) Name() string             { return "quit" }

func (OpenLibrary) command()      {}
func (Next) command()             {}
func (Score) command()            {}
func (Current) command()          {}
func (Answer) command()           {}
func (Instructions) command()     {}
func (Material) command()         {}
func (FilterMetadata) command()   {}
func (FilterCourses) command()    {}
func (FilterLessons) command()    {}
func (FilterReviewList) command() {}
func (FilterSetSaved) command()   {}
func (FilterListSaved) command()  {}
func (FilterClear) command()      {}
func (FilterShow) command()       {}
func (Blacklist) command()        {}
func (ReviewList) command()       {}
func (List) command()             {}
func (Scores) command()           {}
func (Search) command()           {}
func (UnitInfo) command()         {}
func (UnitType) command()         {}
func (ExportGraph) command()      {}
func (MantraCount) command()      {}
func (Help) command()             {}
func (Quit) command()             {}

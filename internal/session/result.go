package session

import (
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// Result is the render-ready outcome of a dispatched command.
type Result interface {
	result()
}

// Opened reports a successfully opened library. Warning is set when the
// staged score could not be submitted to the previous library.
type Opened struct {
	Path    string
	Warning string
}

// ExerciseShown displays an exercise.
type ExerciseShown struct {
	Exercise *scheduler.Exercise
}

// NothingToDo reports that no exercise is eligible under Filter.
type NothingToDo struct {
	Filter *scheduler.Filter
}

// ScoreStaged confirms a staged score.
type ScoreStaged struct {
	ExerciseID string
	Score      scheduler.MasteryScore
}

// ContentKind names the kind of content shown.
type ContentKind string

const (
	KindInstructions ContentKind = "instructions"
	KindMaterial     ContentKind = "material"
)

// ContentShown displays course or lesson instructions or material. Content
// is nil when the unit has none.
type ContentShown struct {
	Kind    ContentKind
	Scope   scheduler.Scope
	UnitID  string
	Content *scheduler.Content
}

// AnswerShown displays the answer of an exercise. Answer is nil when the
// exercise has none.
type AnswerShown struct {
	Exercise *scheduler.Exercise
	Answer   *scheduler.Content
}

// Message is a one-line confirmation.
type Message struct {
	Text string
}

// UnitList is an ordered list of units. Empty is printed instead of the
// heading when Units is empty.
type UnitList struct {
	Heading   string
	Empty     string
	Units     []scheduler.Unit
	WithTypes bool
}

// SavedFilterList lists saved filters.
type SavedFilterList struct {
	Filters []scheduler.SavedFilter
}

// ScoreHistory lists the most recent scores of an exercise, newest first,
// with their time-decayed aggregate.
type ScoreHistory struct {
	ExerciseID string
	Scores     []scheduler.ScoreRecord
	Aggregate  float64
	AsOf       time.Time
}

// Mantras reports the background mantra count.
type Mantras struct {
	Count int64
}

// FilterShown displays the active filter, nil when none is set.
type FilterShown struct {
	Filter *scheduler.Filter
}

// UnitDescribed reports the type and manifest of a unit.
type UnitDescribed struct {
	Unit     scheduler.Unit
	Manifest *scheduler.UnitManifest
}

// UnitTyped reports only the type of a unit.
type UnitTyped struct {
	Unit scheduler.Unit
}

// HelpText displays usage.
type HelpText struct {
	Topic string
	Text  string
}

// Goodbye ends the session.
type Goodbye struct{}

func (Opened) result()          {}
func (ExerciseShown) result()   {}
func (NothingToDo) result()     {}
func (ScoreStaged) result()     {}
func (ContentShown) result()    {}
func (AnswerShown) result()     {}
func (Message) result()         {}
func (UnitList) result()        {}
func (SavedFilterList) result() {}
func (ScoreHistory) result()    {}
func (Mantras) result()         {}
func (FilterShown) result()     {}
func (UnitDescribed) result()   {}
func (UnitTyped) result()       {}
func (HelpText) result()        {}
func (Goodbye) result()         {}

package session

import (
	"github.com/trane-project/trane-cli/internal/mantra"
	"github.com/trane-project/trane-cli/internal/scheduler"
)

// State is the in-memory state of one interactive run. It is owned by the
// goroutine running the loop and mutated only by the Dispatcher.
//
// A staged score exists only while a current exercise exists.
type State struct {
	library scheduler.Library
	current *scheduler.Exercise
	staged  *scheduler.MasteryScore
	filter  *scheduler.Filter
	mantras mantra.Source
}

// NewState creates an empty state reading the mantra counter from src,
// which may be nil.
func NewState(src mantra.Source) *State {
	return &State{mantras: src}
}

func (s *State) Library() scheduler.Library   { return s.library }
func (s *State) Current() *scheduler.Exercise { return s.current }
func (s *State) Filter() *scheduler.Filter    { return s.filter }

// Staged returns the staged score, if any.
func (s *State) Staged() (scheduler.MasteryScore, bool) {
	if s.staged == nil {
		return 0, false
	}
	return *s.staged, true
}

// MantraCount reads the ambient counter.
func (s *State) MantraCount() int64 {
	if s.mantras == nil {
		return 0
	}
	return s.mantras.Count()
}

// Consistent reports whether the staged-score invariant holds.
func (s *State) Consistent() bool {
	return s.staged == nil || s.current != nil
}

// setLibrary installs lib and resets everything tied to the previous one.
func (s *State) setLibrary(lib scheduler.Library) {
	s.library = lib
	s.current = nil
	s.staged = nil
	s.filter = nil
}

// setCurrent replaces the current exercise. Any staged score belonged to
// the previous exercise and is dropped.
func (s *State) setCurrent(ex *scheduler.Exercise) {
	s.current = ex
	s.staged = nil
}

func (s *State) stage(score scheduler.MasteryScore) error {
	if s.current == nil {
		return ErrNoCurrentExercise
	}
	s.staged = &score
	return nil
}

func (s *State) clearStaged() { s.staged = nil }

func (s *State) setFilter(f *scheduler.Filter) { s.filter = f }

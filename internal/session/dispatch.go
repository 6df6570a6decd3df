package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/trane-project/trane-cli/internal/command"
	"github.com/trane-project/trane-cli/internal/logging"
	"github.com/trane-project/trane-cli/internal/scheduler"
	"github.com/trane-project/trane-cli/internal/spacedrep"
)

// DefaultScoresLimit is the number of scores shown when neither the command
// nor the configuration gives one.
const DefaultScoresLimit = 25

// Config holds optional Dispatcher dependencies. Zero values get defaults.
type Config struct {
	Logger      *logging.Logger
	Now         func() time.Time
	ScoresLimit int
}

// Dispatcher executes commands against the session state and the
// scheduler. It is not safe for concurrent use.
type Dispatcher struct {
	opener      scheduler.Opener
	state       *State
	log         *logging.Logger
	now         func() time.Time
	scoresLimit int

	started time.Time
	stats   sessionStats
}

// NewDispatcher creates a dispatcher that opens libraries with opener and
// mutates state.
func NewDispatcher(opener scheduler.Opener, state *State, cfg Config) *Dispatcher {
	d := &Dispatcher{
		opener:      opener,
		state:       state,
		log:         cfg.Logger,
		now:         cfg.Now,
		scoresLimit: cfg.ScoresLimit,
	}
	if d.log == nil {
		d.log = logging.Nop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.scoresLimit <= 0 {
		d.scoresLimit = DefaultScoresLimit
	}
	d.started = d.now()
	return d
}

// State returns the session state.
func (d *Dispatcher) State() *State { return d.state }

// Dispatch executes cmd. Every returned error is recoverable: the caller
// reports it and continues reading input.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command) (Result, error) {
	d.log.Debug("dispatch", "command", cmd.Name())
	res, err := d.dispatch(ctx, cmd)
	if err != nil {
		d.log.Warn("command failed", "command", cmd.Name(), "error", err)
	}
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd command.Command) (Result, error) {
	switch c := cmd.(type) {
	case command.OpenLibrary:
		return d.open(ctx, c.Path)
	case command.Next:
		return d.next(ctx)
	case command.Score:
		return d.score(c.Value)
	case command.Current:
		ex, err := d.requireCurrent()
		if err != nil {
			return nil, err
		}
		return ExerciseShown{Exercise: ex}, nil
	case command.Answer:
		return d.answer(ctx)
	case command.Instructions:
		return d.content(ctx, KindInstructions, c.Scope, c.UnitID)
	case command.Material:
		return d.content(ctx, KindMaterial, c.Scope, c.UnitID)
	case command.FilterMetadata:
		return d.setFilter(scheduler.MetadataFilter(c.Op, c.CourseMetadata, c.LessonMetadata))
	case command.FilterCourses:
		return d.filterUnits(ctx, scheduler.FilterCourses, scheduler.UnitCourse, c.IDs)
	case command.FilterLessons:
		return d.filterUnits(ctx, scheduler.FilterLessons, scheduler.UnitLesson, c.IDs)
	case command.FilterReviewList:
		return d.setFilter(&scheduler.Filter{Kind: scheduler.FilterReviewList})
	case command.FilterSetSaved:
		return d.setSavedFilter(ctx, c.ID)
	case command.FilterListSaved:
		return d.listSavedFilters(ctx)
	case command.FilterClear:
		if d.state.filter == nil {
			return Message{Text: "No filter is set"}, nil
		}
		d.state.setFilter(nil)
		return Message{Text: "Cleared the unit filter"}, nil
	case command.FilterShow:
		return FilterShown{Filter: d.state.filter}, nil
	case command.Blacklist:
		return d.blacklist(ctx, c)
	case command.ReviewList:
		return d.reviewList(ctx, c)
	case command.List:
		return d.list(ctx, c)
	case command.Scores:
		return d.scores(ctx, c)
	case command.Search:
		return d.search(ctx, c.Terms)
	case command.UnitInfo:
		return d.unitInfo(ctx, c.UnitID)
	case command.UnitType:
		t, err := d.unitType(ctx, c.UnitID)
		if err != nil {
			return nil, err
		}
		return UnitTyped{Unit: scheduler.Unit{ID: c.UnitID, Type: t}}, nil
	case command.ExportGraph:
		return d.exportGraph(ctx, c.Path)
	case command.MantraCount:
		return Mantras{Count: d.state.MantraCount()}, nil
	case command.Help:
		return HelpText{Topic: c.Topic, Text: c.Text}, nil
	case command.Quit:
		return Goodbye{}, nil
	}
	return nil, fmt.Errorf("unsupported command %q", cmd.Name())
}

// Shutdown submits any staged score and closes the library. It is called
// once when the loop terminates.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	lib := d.state.library
	if lib == nil {
		return nil
	}
	flushErr := d.flush(ctx)
	if err := lib.Close(); err != nil {
		d.log.Warn("close library", "path", lib.Root(), "error", err)
	}
	d.state.setLibrary(nil)
	return flushErr
}

func (d *Dispatcher) requireLibrary() (scheduler.Library, error) {
	if d.state.library == nil {
		return nil, ErrNoLibraryOpen
	}
	return d.state.library, nil
}

func (d *Dispatcher) requireCurrent() (*scheduler.Exercise, error) {
	if _, err := d.requireLibrary(); err != nil {
		return nil, err
	}
	if d.state.current == nil {
		return nil, ErrNoCurrentExercise
	}
	return d.state.current, nil
}

// fail wraps a scheduler error, mapping ErrNotFound to a NotFoundError.
func fail(op, kind, id string, err error) error {
	if errors.Is(err, scheduler.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id, Err: err}
	}
	return &SchedulerError{Op: op, Err: err}
}

// flush submits the staged score for the current exercise. On failure the
// staged score is kept so the user can retry.
func (d *Dispatcher) flush(ctx context.Context) error {
	score, ok := d.state.Staged()
	if !ok {
		return nil
	}
	ex := d.state.current
	if err := d.state.library.SubmitScore(ctx, ex.ID, score, d.now()); err != nil {
		return fail("submit score", "exercise", ex.ID, err)
	}
	d.log.Info("score submitted", "exercise", ex.ID, "score", int(score))
	d.stats.recordScore(score)
	d.state.clearStaged()
	return nil
}

func (d *Dispatcher) open(ctx context.Context, path string) (Result, error) {
	lib, err := d.opener.Open(ctx, path)
	if err != nil {
		return nil, &LibraryOpenError{Path: path, Err: err}
	}

	var warning string
	if old := d.state.library; old != nil {
		if err := d.flush(ctx); err != nil {
			warning = fmt.Sprintf("the staged score was not submitted to %s: %v", old.Root(), err)
		}
		if err := old.Close(); err != nil {
			d.log.Warn("close library", "path", old.Root(), "error", err)
		}
	}
	d.state.setLibrary(lib)
	d.log.Info("library opened", "path", lib.Root())
	return Opened{Path: lib.Root(), Warning: warning}, nil
}

// next submits the staged score and then fetches the next exercise. A
// failed submission leaves the state untouched.
func (d *Dispatcher) next(ctx context.Context) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	if err := d.flush(ctx); err != nil {
		return nil, err
	}

	ex, err := lib.NextExercise(ctx, d.state.filter)
	if err != nil {
		return nil, fail("get next exercise", "saved filter", filterID(d.state.filter), err)
	}
	d.state.setCurrent(ex)
	if ex == nil {
		return NothingToDo{Filter: d.state.filter}, nil
	}
	d.stats.exercises++
	return ExerciseShown{Exercise: ex}, nil
}

func filterID(f *scheduler.Filter) string {
	if f == nil {
		return ""
	}
	return f.SavedID
}

func (d *Dispatcher) score(v scheduler.MasteryScore) (Result, error) {
	if _, err := d.requireLibrary(); err != nil {
		return nil, err
	}
	score, err := scheduler.ParseMasteryScore(int(v))
	if err != nil {
		return nil, err
	}
	if err := d.state.stage(score); err != nil {
		return nil, err
	}
	return ScoreStaged{ExerciseID: d.state.current.ID, Score: score}, nil
}

func (d *Dispatcher) answer(ctx context.Context) (Result, error) {
	ex, err := d.requireCurrent()
	if err != nil {
		return nil, err
	}
	content, err := d.state.library.Answer(ctx, ex.ID)
	if err != nil {
		return nil, fail("get answer", "exercise", ex.ID, err)
	}
	return AnswerShown{Exercise: ex, Answer: content}, nil
}

func scopeType(scope scheduler.Scope) scheduler.UnitType {
	if scope == scheduler.ScopeCourse {
		return scheduler.UnitCourse
	}
	return scheduler.UnitLesson
}

// content shows instructions or material. An explicit unit ID only needs
// an open library; otherwise the current exercise's unit is used.
func (d *Dispatcher) content(ctx context.Context, kind ContentKind, scope scheduler.Scope, unitID string) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	if unitID == "" {
		ex, err := d.requireCurrent()
		if err != nil {
			return nil, err
		}
		unitID = ex.LessonID
		if scope == scheduler.ScopeCourse {
			unitID = ex.CourseID
		}
	} else if err := d.checkUnit(ctx, lib, unitID, scopeType(scope)); err != nil {
		return nil, err
	}

	var c *scheduler.Content
	if kind == KindInstructions {
		c, err = lib.Instructions(ctx, scope, unitID)
	} else {
		c, err = lib.Material(ctx, scope, unitID)
	}
	if err != nil {
		return nil, fail("get "+string(kind), string(scope), unitID, err)
	}
	return ContentShown{Kind: kind, Scope: scope, UnitID: unitID, Content: c}, nil
}

// checkUnit verifies that unitID exists and, when want is set, has that
// type.
func (d *Dispatcher) checkUnit(ctx context.Context, lib scheduler.Library, unitID string, want scheduler.UnitType) error {
	kind := "unit"
	if want != "" {
		kind = strings.ToLower(string(want))
	}
	got, err := lib.UnitType(ctx, unitID)
	if err != nil {
		return fail("get unit type", kind, unitID, err)
	}
	if want != "" && got != want {
		return &NotFoundError{Kind: kind, ID: unitID}
	}
	return nil
}

func (d *Dispatcher) setFilter(f *scheduler.Filter) (Result, error) {
	if _, err := d.requireLibrary(); err != nil {
		return nil, err
	}
	d.state.setFilter(f)
	return Message{Text: "Set the unit filter to " + f.String()}, nil
}

func (d *Dispatcher) filterUnits(ctx context.Context, kind scheduler.FilterKind, want scheduler.UnitType, ids []string) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := d.checkUnit(ctx, lib, id, want); err != nil {
			return nil, err
		}
	}
	return d.setFilter(&scheduler.Filter{Kind: kind, UnitIDs: append([]string(nil), ids...)})
}

func (d *Dispatcher) setSavedFilter(ctx context.Context, id string) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	saved, err := lib.SavedFilter(ctx, id)
	if err != nil {
		return nil, fail("get saved filter", "saved filter", id, err)
	}
	d.state.setFilter(scheduler.SavedFilterRef(saved.ID))
	text := "Set the unit filter to saved filter " + saved.ID
	if saved.Description != "" {
		text += ": " + saved.Description
	}
	return Message{Text: text}, nil
}

func (d *Dispatcher) listSavedFilters(ctx context.Context) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	filters, err := lib.SavedFilters(ctx)
	if err != nil {
		return nil, fail("list saved filters", "saved filter", "", err)
	}
	return SavedFilterList{Filters: filters}, nil
}

// withTypes pairs unit IDs with their types. Units that no longer exist in
// the library are listed with an empty type.
func (d *Dispatcher) withTypes(ctx context.Context, lib scheduler.Library, ids []string) []scheduler.Unit {
	units := make([]scheduler.Unit, 0, len(ids))
	for _, id := range ids {
		t, err := lib.UnitType(ctx, id)
		if err != nil {
			d.log.Debug("unit type lookup failed", "unit", id, "error", err)
		}
		units = append(units, scheduler.Unit{ID: id, Type: t})
	}
	return units
}

func (d *Dispatcher) blacklist(ctx context.Context, c command.Blacklist) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}

	var unitID string
	switch c.Action {
	case command.BlacklistShow:
		ids, err := lib.Blacklist(ctx)
		if err != nil {
			return nil, fail("list blacklist", "unit", "", err)
		}
		return UnitList{
			Heading:   "Blacklist:",
			Empty:     "No entries in the blacklist",
			Units:     d.withTypes(ctx, lib, ids),
			WithTypes: true,
		}, nil
	case command.BlacklistRemove:
		ids, err := lib.Blacklist(ctx)
		if err != nil {
			return nil, fail("list blacklist", "unit", "", err)
		}
		if !slices.Contains(ids, c.UnitID) {
			return Message{Text: fmt.Sprintf("Unit %s is not in the blacklist", c.UnitID)}, nil
		}
		if err := lib.RemoveFromBlacklist(ctx, c.UnitID); err != nil {
			return nil, fail("remove from blacklist", "unit", c.UnitID, err)
		}
		return Message{Text: fmt.Sprintf("Removed unit %s from the blacklist", c.UnitID)}, nil
	case command.BlacklistAdd:
		if err := d.checkUnit(ctx, lib, c.UnitID, ""); err != nil {
			return nil, err
		}
		unitID = c.UnitID
	default:
		ex, err := d.requireCurrent()
		if err != nil {
			return nil, err
		}
		switch c.Action {
		case command.BlacklistCourse:
			unitID = ex.CourseID
		case command.BlacklistLesson:
			unitID = ex.LessonID
		default:
			unitID = ex.ID
		}
	}

	if err := lib.AddToBlacklist(ctx, unitID); err != nil {
		return nil, fail("add to blacklist", "unit", unitID, err)
	}
	return Message{Text: fmt.Sprintf("Added unit %s to the blacklist", unitID)}, nil
}

func (d *Dispatcher) reviewList(ctx context.Context, c command.ReviewList) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	switch c.Action {
	case command.ReviewListAdd:
		if err := d.checkUnit(ctx, lib, c.UnitID, ""); err != nil {
			return nil, err
		}
		if err := lib.AddToReviewList(ctx, c.UnitID); err != nil {
			return nil, fail("add to review list", "unit", c.UnitID, err)
		}
		return Message{Text: fmt.Sprintf("Added unit %s to the review list", c.UnitID)}, nil
	case command.ReviewListRemove:
		ids, err := lib.ReviewList(ctx)
		if err != nil {
			return nil, fail("list review list", "unit", "", err)
		}
		if !slices.Contains(ids, c.UnitID) {
			return Message{Text: fmt.Sprintf("Unit %s is not in the review list", c.UnitID)}, nil
		}
		if err := lib.RemoveFromReviewList(ctx, c.UnitID); err != nil {
			return nil, fail("remove from review list", "unit", c.UnitID, err)
		}
		return Message{Text: fmt.Sprintf("Removed unit %s from the review list", c.UnitID)}, nil
	}
	ids, err := lib.ReviewList(ctx)
	if err != nil {
		return nil, fail("list review list", "unit", "", err)
	}
	return UnitList{
		Heading:   "Review list:",
		Empty:     "No entries in the review list",
		Units:     d.withTypes(ctx, lib, ids),
		WithTypes: true,
	}, nil
}

func (d *Dispatcher) list(ctx context.Context, c command.List) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}

	out := UnitList{}
	var filter *scheduler.Filter
	switch c.Kind {
	case scheduler.ListCourses:
		out.Heading, out.Empty = "Courses:", "No courses in library"
	case scheduler.ListMatchingCourses:
		out.Heading, out.Empty = "Matching courses:", "No matching courses"
		filter = d.state.filter
	case scheduler.ListLessons:
		if err := d.checkUnit(ctx, lib, c.UnitID, scheduler.UnitCourse); err != nil {
			return nil, err
		}
		out.Heading, out.Empty = "Lessons:", "No lessons in course "+c.UnitID
	case scheduler.ListMatchingLessons:
		if err := d.checkUnit(ctx, lib, c.UnitID, scheduler.UnitCourse); err != nil {
			return nil, err
		}
		out.Heading, out.Empty = "Matching lessons:", "No matching lessons in course "+c.UnitID
		filter = d.state.filter
	case scheduler.ListExercises:
		if err := d.checkUnit(ctx, lib, c.UnitID, scheduler.UnitLesson); err != nil {
			return nil, err
		}
		out.Heading, out.Empty = "Exercises:", "No exercises in lesson "+c.UnitID
	case scheduler.ListDependencies, scheduler.ListDependents:
		t, err := lib.UnitType(ctx, c.UnitID)
		if err != nil {
			return nil, fail("get unit type", "unit", c.UnitID, err)
		}
		if t == scheduler.UnitExercise {
			return nil, &SchedulerError{Op: "list " + string(c.Kind), Err: fmt.Errorf("exercises do not have %s", c.Kind)}
		}
		title := strings.ToUpper(string(c.Kind[:1])) + string(c.Kind[1:])
		out.Heading, out.Empty = title+":", fmt.Sprintf("No %s for unit with ID %s", c.Kind, c.UnitID)
		out.WithTypes = true
	default:
		return nil, fmt.Errorf("unsupported list kind %q", c.Kind)
	}

	units, err := lib.Units(ctx, c.Kind, c.UnitID, filter)
	if err != nil {
		return nil, fail("list "+string(c.Kind), "unit", c.UnitID, err)
	}
	out.Units = units
	return out, nil
}

func (d *Dispatcher) scores(ctx context.Context, c command.Scores) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	id := c.ExerciseID
	if id == "" {
		ex, err := d.requireCurrent()
		if err != nil {
			return nil, err
		}
		id = ex.ID
	} else if err := d.checkUnit(ctx, lib, id, scheduler.UnitExercise); err != nil {
		return nil, err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = d.scoresLimit
	}
	records, err := lib.Scores(ctx, id, limit)
	if err != nil {
		return nil, fail("get scores", "exercise", id, err)
	}
	now := d.now()
	return ScoreHistory{
		ExerciseID: id,
		Scores:     records,
		Aggregate:  spacedrep.DecayScore(records, now),
		AsOf:       now,
	}, nil
}

func (d *Dispatcher) search(ctx context.Context, terms []string) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	query := strings.Join(terms, " ")
	units, err := lib.Search(ctx, query)
	if err != nil {
		return nil, fail("search", "unit", "", err)
	}
	return UnitList{
		Heading:   "Search results:",
		Empty:     fmt.Sprintf("No results for %q", query),
		Units:     units,
		WithTypes: true,
	}, nil
}

func (d *Dispatcher) unitType(ctx context.Context, unitID string) (scheduler.UnitType, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return "", err
	}
	t, err := lib.UnitType(ctx, unitID)
	if err != nil {
		return "", fail("get unit type", "unit", unitID, err)
	}
	return t, nil
}

func (d *Dispatcher) unitInfo(ctx context.Context, unitID string) (Result, error) {
	t, err := d.unitType(ctx, unitID)
	if err != nil {
		return nil, err
	}
	m, err := d.state.library.UnitManifest(ctx, unitID)
	if err != nil {
		return nil, fail("get unit manifest", "unit", unitID, err)
	}
	return UnitDescribed{Unit: scheduler.Unit{ID: unitID, Type: t}, Manifest: m}, nil
}

// exportGraph writes the dependency graph to path, replacing any existing
// file.
func (d *Dispatcher) exportGraph(ctx context.Context, path string) (Result, error) {
	lib, err := d.requireLibrary()
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export graph: %w", err)
	}
	if err := lib.ExportGraph(ctx, f); err != nil {
		f.Close()
		return nil, fail("export graph", "unit", "", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("export graph: %w", err)
	}
	d.log.Info("graph exported", "path", path)
	return Message{Text: "Exported graph to " + path}, nil
}

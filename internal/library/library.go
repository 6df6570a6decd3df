// Package library implements the scheduler interface on top of a course
// library stored as a directory tree of JSON manifests.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/trane-project/trane-cli/internal/logging"
	"github.com/trane-project/trane-cli/internal/scheduler"
	"github.com/trane-project/trane-cli/internal/spacedrep"
	"github.com/trane-project/trane-cli/internal/store"
)

// DataDir is the directory inside a library root that holds the database
// and the saved filters.
const DataDir = ".trane"

// Config holds the optional settings of an Opener.
type Config struct {
	Logger *logging.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// DBPath overrides the database location. Empty means
	// store.DefaultDBPath(root).
	DBPath string
}

// Opener opens course libraries from disk.
type Opener struct {
	cfg Config
}

// NewOpener creates an Opener.
func NewOpener(cfg Config) *Opener {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Opener{cfg: cfg}
}

// Open loads and validates the library rooted at path, then opens its
// practice database.
func (o *Opener) Open(ctx context.Context, path string) (scheduler.Library, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	m, err := loadManifests(root)
	if err != nil {
		return nil, err
	}
	if err := validateGraph(m); err != nil {
		return nil, err
	}
	filters, err := loadSavedFilters(filepath.Join(root, DataDir, "filters"))
	if err != nil {
		return nil, err
	}

	dbPath := o.cfg.DBPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(root); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	lib := &Library{
		root:       root,
		graph:      buildGraph(m),
		filters:    filters,
		store:      st,
		scores:     st.ScoreRepo(sessionID),
		blacklist:  st.Blacklist(),
		reviewList: st.ReviewList(),
		log:        o.cfg.Logger.With("component", "library", "session", sessionID),
		now:        o.cfg.Now,
	}
	if err := lib.loadReviews(ctx); err != nil {
		st.Close()
		return nil, err
	}

	lib.log.Info("library opened",
		"root", root,
		"courses", len(m.courses),
		"lessons", len(m.lessons),
		"exercises", len(m.exercises),
		"saved_filters", len(filters),
	)
	return lib, nil
}

// Library is a course library opened from disk.
type Library struct {
	root    string
	graph   *graph
	filters map[string]scheduler.SavedFilter

	store      *store.Store
	scores     store.ScoreRepo
	blacklist  store.UnitSetRepo
	reviewList store.UnitSetRepo
	reviews    *spacedrep.Scheduler

	// lastServed is skipped by selection when another exercise qualifies.
	lastServed string

	log *logging.Logger
	now func() time.Time
}

var _ scheduler.Library = (*Library)(nil)

// loadReviews rebuilds the review schedule from the stored score history.
func (l *Library) loadReviews(ctx context.Context) error {
	all, err := l.scores.All(ctx)
	if err != nil {
		return err
	}
	history := make(map[string][]scheduler.ScoreRecord, len(all))
	for id, rows := range all {
		if l.graph.exercises[id] == nil {
			continue
		}
		history[id] = toRecords(rows)
	}
	l.reviews = spacedrep.FromHistory(history)
	return nil
}

func (l *Library) Root() string { return l.root }

func (l *Library) Close() error {
	return l.store.Close()
}

func (l *Library) SubmitScore(ctx context.Context, exerciseID string, score scheduler.MasteryScore, at time.Time) error {
	if l.graph.exercises[exerciseID] == nil {
		return notFound("exercise", exerciseID)
	}
	if !score.Valid() {
		return fmt.Errorf("invalid score %d", score)
	}
	if err := l.scores.Append(ctx, exerciseID, int(score), at); err != nil {
		return err
	}
	l.reviews.RecordReview(exerciseID, score, at)
	l.log.Debug("score recorded", "exercise", exerciseID, "score", int(score))
	return nil
}

func (l *Library) Scores(ctx context.Context, exerciseID string, limit int) ([]scheduler.ScoreRecord, error) {
	if l.graph.exercises[exerciseID] == nil {
		return nil, notFound("exercise", exerciseID)
	}
	rows, err := l.scores.Recent(ctx, exerciseID, limit)
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func toRecords(rows []store.ScoreRow) []scheduler.ScoreRecord {
	out := make([]scheduler.ScoreRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, scheduler.ScoreRecord{Score: scheduler.MasteryScore(r.Score), Timestamp: r.Timestamp})
	}
	return out
}

func (l *Library) Instructions(_ context.Context, scope scheduler.Scope, unitID string) (*scheduler.Content, error) {
	return l.unitContent(scope, unitID, func(c *Course) *ContentRef { return c.Instructions },
		func(ls *Lesson) *ContentRef { return ls.Instructions })
}

func (l *Library) Material(_ context.Context, scope scheduler.Scope, unitID string) (*scheduler.Content, error) {
	return l.unitContent(scope, unitID, func(c *Course) *ContentRef { return c.Material },
		func(ls *Lesson) *ContentRef { return ls.Material })
}

func (l *Library) unitContent(scope scheduler.Scope, unitID string,
	course func(*Course) *ContentRef, lesson func(*Lesson) *ContentRef) (*scheduler.Content, error) {
	switch scope {
	case scheduler.ScopeCourse:
		c := l.graph.courses[unitID]
		if c == nil {
			return nil, notFound("course", unitID)
		}
		return course(c).load(c.dir)
	case scheduler.ScopeLesson:
		ls := l.graph.lessons[unitID]
		if ls == nil {
			return nil, notFound("lesson", unitID)
		}
		return lesson(ls).load(ls.dir)
	}
	return nil, fmt.Errorf("unknown scope %q", scope)
}

func (l *Library) Answer(_ context.Context, exerciseID string) (*scheduler.Content, error) {
	e := l.graph.exercises[exerciseID]
	if e == nil {
		return nil, notFound("exercise", exerciseID)
	}
	return e.Back.load(e.dir)
}

func (l *Library) AddToBlacklist(ctx context.Context, unitID string) error {
	if _, ok := l.graph.unitType(unitID); !ok {
		return notFound("unit", unitID)
	}
	return l.blacklist.Add(ctx, unitID)
}

func (l *Library) RemoveFromBlacklist(ctx context.Context, unitID string) error {
	return l.blacklist.Remove(ctx, unitID)
}

func (l *Library) Blacklist(ctx context.Context) ([]string, error) {
	return l.blacklist.List(ctx)
}

func (l *Library) AddToReviewList(ctx context.Context, unitID string) error {
	if _, ok := l.graph.unitType(unitID); !ok {
		return notFound("unit", unitID)
	}
	return l.reviewList.Add(ctx, unitID)
}

func (l *Library) RemoveFromReviewList(ctx context.Context, unitID string) error {
	return l.reviewList.Remove(ctx, unitID)
}

func (l *Library) ReviewList(ctx context.Context) ([]string, error) {
	return l.reviewList.List(ctx)
}

func (l *Library) SavedFilter(_ context.Context, id string) (*scheduler.SavedFilter, error) {
	f, ok := l.filters[id]
	if !ok {
		return nil, notFound("saved filter", id)
	}
	return &f, nil
}

func (l *Library) SavedFilters(context.Context) ([]scheduler.SavedFilter, error) {
	return sortedFilters(l.filters), nil
}

func (l *Library) UnitType(_ context.Context, unitID string) (scheduler.UnitType, error) {
	t, ok := l.graph.unitType(unitID)
	if !ok {
		return "", notFound("unit", unitID)
	}
	return t, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, scheduler.ErrNotFound)
}

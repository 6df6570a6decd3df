package library

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// NextExercise picks the next exercise among those that are not
// blacklisted and pass the filter. Due reviews come first (most overdue
// first), then exercises never practiced in dependency order, then the
// least recently practiced exercise.
func (l *Library) NextExercise(ctx context.Context, filter *scheduler.Filter) (*scheduler.Exercise, error) {
	eligible, err := l.eligible(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		l.lastServed = ""
		return nil, nil
	}

	pick := l.pick(eligible, l.now())

	front, err := pick.Front.load(pick.dir)
	if err != nil {
		return nil, err
	}
	l.lastServed = pick.ID
	l.log.Debug("exercise selected", "exercise", pick.ID, "eligible", len(eligible))

	ex := &scheduler.Exercise{
		ID:          pick.ID,
		LessonID:    pick.LessonID,
		CourseID:    pick.CourseID,
		Name:        pick.Name,
		Description: pick.Description,
		Type:        pick.ExerciseType,
		Front:       *front,
	}
	if ex.Back, err = pick.Back.load(pick.dir); err != nil {
		return nil, err
	}
	return ex, nil
}

// eligible returns the candidate exercises sorted in introduction order.
func (l *Library) eligible(ctx context.Context, filter *scheduler.Filter) ([]*Exercise, error) {
	blacklist, err := l.blacklist.List(ctx)
	if err != nil {
		return nil, err
	}
	var reviewList []string
	if needsReviewList(filter, l.filters) {
		if reviewList, err = l.reviewList.List(ctx); err != nil {
			return nil, err
		}
	}
	match, err := l.newMatcher(filter, reviewList)
	if err != nil {
		return nil, err
	}

	blocked := toSet(blacklist)
	var out []*Exercise
	for _, e := range l.graph.exercises {
		if blocked[e.ID] || blocked[e.LessonID] || blocked[e.CourseID] {
			continue
		}
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return l.graph.exerciseOrder(out[i], out[j]) })
	return out, nil
}

func needsReviewList(f *scheduler.Filter, saved map[string]scheduler.SavedFilter) bool {
	if f == nil {
		return false
	}
	if f.Kind == scheduler.FilterSaved {
		s, ok := saved[f.SavedID]
		return ok && s.Filter.Kind == scheduler.FilterReviewList
	}
	return f.Kind == scheduler.FilterReviewList
}

// pick orders the eligible exercises by priority and returns the first
// one that was not served last. The last served exercise is only repeated
// when nothing else qualifies.
func (l *Library) pick(eligible []*Exercise, now time.Time) *Exercise {
	byID := make(map[string]*Exercise, len(eligible))
	for _, e := range eligible {
		byID[e.ID] = e
	}

	ordered := make([]*Exercise, 0, len(eligible))
	due := make(map[string]bool)
	for _, id := range l.reviews.DueExercises(now) {
		if e := byID[id]; e != nil {
			ordered = append(ordered, e)
			due[id] = true
		}
	}

	var practiced []*Exercise
	for _, e := range eligible {
		switch {
		case due[e.ID]:
		case l.reviews.GetReviewState(e.ID) == nil:
			ordered = append(ordered, e)
		default:
			practiced = append(practiced, e)
		}
	}
	sort.SliceStable(practiced, func(i, j int) bool {
		a := l.reviews.GetReviewState(practiced[i].ID)
		b := l.reviews.GetReviewState(practiced[j].ID)
		return a.LastReviewDate.Before(b.LastReviewDate)
	})
	ordered = append(ordered, practiced...)

	for _, e := range ordered {
		if e.ID != l.lastServed {
			return e
		}
	}
	return ordered[0]
}

// Units lists units of the given kind.
func (l *Library) Units(ctx context.Context, kind scheduler.ListKind, unitID string, filter *scheduler.Filter) ([]scheduler.Unit, error) {
	gr := l.graph
	switch kind {
	case scheduler.ListCourses:
		return units(gr.courseIDs, scheduler.UnitCourse), nil

	case scheduler.ListLessons:
		if gr.courses[unitID] == nil {
			return nil, notFound("course", unitID)
		}
		return units(gr.lessonsByCourse[unitID], scheduler.UnitLesson), nil

	case scheduler.ListExercises:
		if gr.lessons[unitID] == nil {
			return nil, notFound("lesson", unitID)
		}
		return units(gr.exercisesByLesson[unitID], scheduler.UnitExercise), nil

	case scheduler.ListDependencies, scheduler.ListDependents:
		t, ok := gr.unitType(unitID)
		if !ok {
			return nil, notFound("unit", unitID)
		}
		if t == scheduler.UnitExercise {
			return nil, errors.New("exercises do not have dependencies")
		}
		ids := gr.dependencies(unitID)
		if kind == scheduler.ListDependents {
			ids = gr.dependents[unitID]
		}
		return units(ids, t), nil

	case scheduler.ListMatchingCourses, scheduler.ListMatchingLessons:
		if kind == scheduler.ListMatchingLessons && gr.courses[unitID] == nil {
			return nil, notFound("course", unitID)
		}
		eligible, err := l.eligible(ctx, filter)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		var ids []string
		for _, e := range eligible {
			id := e.CourseID
			if kind == scheduler.ListMatchingLessons {
				if e.CourseID != unitID {
					continue
				}
				id = e.LessonID
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		if kind == scheduler.ListMatchingLessons {
			return units(ids, scheduler.UnitLesson), nil
		}
		return units(ids, scheduler.UnitCourse), nil
	}
	return nil, errors.New("unknown list kind " + string(kind))
}

// Search returns the courses, lessons, and exercises whose id, name,
// description, or metadata values contain every term of query.
func (l *Library) Search(_ context.Context, query string) ([]scheduler.Unit, error) {
	gr := l.graph
	var out []scheduler.Unit
	for _, id := range gr.courseIDs {
		c := gr.courses[id]
		if matchesQuery(query, append([]string{c.ID, c.Name, c.Description}, metadataValues(c.Metadata)...)...) {
			out = append(out, scheduler.Unit{ID: id, Type: scheduler.UnitCourse})
		}
	}
	for _, id := range sortedKeys(gr.lessons) {
		ls := gr.lessons[id]
		if matchesQuery(query, append([]string{ls.ID, ls.Name, ls.Description}, metadataValues(ls.Metadata)...)...) {
			out = append(out, scheduler.Unit{ID: id, Type: scheduler.UnitLesson})
		}
	}
	for _, id := range sortedKeys(gr.exercises) {
		e := gr.exercises[id]
		if matchesQuery(query, e.ID, e.Name, e.Description) {
			out = append(out, scheduler.Unit{ID: id, Type: scheduler.UnitExercise})
		}
	}
	return out, nil
}

func metadataValues(md map[string][]string) []string {
	var out []string
	for k, vs := range md {
		out = append(out, k)
		out = append(out, vs...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

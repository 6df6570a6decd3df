package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// savedFilterFile is the on-disk form of a saved filter.
type savedFilterFile struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Filter      scheduler.Filter `json:"filter"`
}

// loadSavedFilters reads every *.json file in dir. A missing directory
// means no saved filters.
func loadSavedFilters(dir string) (map[string]scheduler.SavedFilter, error) {
	filters := make(map[string]scheduler.SavedFilter)
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list saved filters: %w", err)
	}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read saved filter: %w", err)
		}
		if err := validateDocument(schemaFilter, path, raw); err != nil {
			return nil, err
		}
		var f savedFilterFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, &ValidationError{Path: path, Err: err}
		}
		if f.Filter.Kind == scheduler.FilterMetadata && f.Filter.Op == "" {
			f.Filter.Op = scheduler.OpAll
		}
		if _, dup := filters[f.ID]; dup {
			return nil, &ValidationError{Path: path, Err: fmt.Errorf("duplicate saved filter ID %q", f.ID)}
		}
		filters[f.ID] = scheduler.SavedFilter{ID: f.ID, Description: f.Description, Filter: f.Filter}
	}
	return filters, nil
}

func sortedFilters(filters map[string]scheduler.SavedFilter) []scheduler.SavedFilter {
	out := make([]scheduler.SavedFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// matcher decides whether an exercise passes a filter. It is built once
// per selection so that saved filters and the review list are resolved a
// single time.
type matcher func(e *Exercise) bool

func (l *Library) newMatcher(f *scheduler.Filter, reviewList []string) (matcher, error) {
	if f == nil {
		return func(*Exercise) bool { return true }, nil
	}
	switch f.Kind {
	case scheduler.FilterMetadata:
		return func(e *Exercise) bool { return l.matchMetadata(f, e) }, nil
	case scheduler.FilterCourses:
		ids := toSet(f.UnitIDs)
		return func(e *Exercise) bool { return ids[e.CourseID] }, nil
	case scheduler.FilterLessons:
		ids := toSet(f.UnitIDs)
		return func(e *Exercise) bool { return ids[e.LessonID] }, nil
	case scheduler.FilterReviewList:
		ids := toSet(reviewList)
		return func(e *Exercise) bool { return ids[e.ID] || ids[e.LessonID] || ids[e.CourseID] }, nil
	case scheduler.FilterSaved:
		saved, ok := l.filters[f.SavedID]
		if !ok {
			return nil, fmt.Errorf("saved filter %q: %w", f.SavedID, scheduler.ErrNotFound)
		}
		if saved.Filter.Kind == scheduler.FilterSaved {
			return nil, fmt.Errorf("saved filter %q refers to another saved filter", f.SavedID)
		}
		return l.newMatcher(&saved.Filter, reviewList)
	}
	return nil, fmt.Errorf("unknown filter kind %q", f.Kind)
}

// matchMetadata applies the course and lesson key-value pairs. With OpAll
// every pair must match; with OpAny one is enough.
func (l *Library) matchMetadata(f *scheduler.Filter, e *Exercise) bool {
	course := l.graph.courses[e.CourseID]
	lesson := l.graph.lessons[e.LessonID]

	var results []bool
	for _, kv := range f.CourseMetadata {
		results = append(results, matchesMetadata(course.Metadata, kv))
	}
	for _, kv := range f.LessonMetadata {
		results = append(results, matchesMetadata(lesson.Metadata, kv))
	}
	if len(results) == 0 {
		return true
	}
	if f.Op == scheduler.OpAny {
		for _, ok := range results {
			if ok {
				return true
			}
		}
		return false
	}
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// matchesQuery reports whether every search term appears in the fields,
// ignoring case.
func matchesQuery(query string, fields ...string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return false
	}
	hay := strings.ToLower(strings.Join(fields, "\n"))
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

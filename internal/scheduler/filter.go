package scheduler

import (
	"fmt"
	"strings"
)

// FilterOp combines the key-value constraints of a metadata filter.
type FilterOp string

const (
	OpAll FilterOp = "all"
	OpAny FilterOp = "any"
)

// FilterKind tags the variant held by a Filter.
type FilterKind string

const (
	FilterMetadata   FilterKind = "metadata"
	FilterCourses    FilterKind = "courses"
	FilterLessons    FilterKind = "lessons"
	FilterReviewList FilterKind = "review_list"
	FilterSaved      FilterKind = "saved"
)

// KeyValue is one metadata constraint written as key:value.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (kv KeyValue) String() string {
	return kv.Key + ":" + kv.Value
}

// ParseKeyValue parses a "key:value" pair. Both halves must be non-empty
// and the string must contain exactly one colon.
func ParseKeyValue(s string) (KeyValue, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return KeyValue{}, fmt.Errorf("invalid key-value pair %q: expected key:value", s)
	}
	return KeyValue{Key: parts[0], Value: parts[1]}, nil
}

// Filter constrains which exercises the scheduler may select. Exactly the
// fields relevant to Kind are set.
type Filter struct {
	Kind FilterKind `json:"kind"`

	// Metadata filter.
	Op             FilterOp   `json:"op,omitempty"`
	CourseMetadata []KeyValue `json:"course_metadata,omitempty"`
	LessonMetadata []KeyValue `json:"lesson_metadata,omitempty"`

	// Course or lesson filter.
	UnitIDs []string `json:"unit_ids,omitempty"`

	// Saved filter reference.
	SavedID string `json:"saved_id,omitempty"`
}

// MetadataFilter builds an ad-hoc metadata filter. An empty op means OpAll.
func MetadataFilter(op FilterOp, course, lesson []KeyValue) *Filter {
	if op == "" {
		op = OpAll
	}
	return &Filter{Kind: FilterMetadata, Op: op, CourseMetadata: course, LessonMetadata: lesson}
}

// SavedFilterRef builds a reference to a saved filter.
func SavedFilterRef(id string) *Filter {
	return &Filter{Kind: FilterSaved, SavedID: id}
}

// String renders the filter in a compact, single-line form.
func (f *Filter) String() string {
	if f == nil {
		return "none"
	}
	switch f.Kind {
	case FilterMetadata:
		var parts []string
		for _, kv := range f.CourseMetadata {
			parts = append(parts, "course "+kv.String())
		}
		for _, kv := range f.LessonMetadata {
			parts = append(parts, "lesson "+kv.String())
		}
		return fmt.Sprintf("metadata (%s): %s", f.Op, strings.Join(parts, ", "))
	case FilterCourses:
		return "courses: " + strings.Join(f.UnitIDs, ", ")
	case FilterLessons:
		return "lessons: " + strings.Join(f.UnitIDs, ", ")
	case FilterReviewList:
		return "review list"
	case FilterSaved:
		return "saved filter " + f.SavedID
	}
	return string(f.Kind)
}

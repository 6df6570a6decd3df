package library

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Names of the embedded schemas, one per manifest kind.
const (
	schemaCourse   = "course"
	schemaLesson   = "lesson"
	schemaExercise = "exercise"
	schemaFilter   = "filter"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// ValidationError reports a document that failed schema validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validateDocument parses raw JSON and validates it against the named
// schema. path is only used for error reporting.
func validateDocument(name, path string, raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ValidationError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getCompiledSchema(name)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(doc); err != nil {
		return &ValidationError{Path: path, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
// All embedded schemas are registered with the compiler so that they can
// reference each other.
func getCompiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", e.Name(), err)
		}
		if err := c.AddResource("schema://"+e.Name(), def); err != nil {
			return nil, fmt.Errorf("add resource: %w", err)
		}
	}

	compiled, err := c.Compile(fmt.Sprintf("schema://%s.json", name))
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateGraph performs the structural checks on a loaded library.
// Returns a combined error describing all problems found, or nil if valid.
func validateGraph(m *manifests) error {
	var errs []string

	seen := make(map[string]string)
	claim := func(id, kind string) {
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Sprintf("duplicate unit ID %q (%s and %s)", id, prev, kind))
			return
		}
		seen[id] = kind
	}
	courses := make(map[string]bool, len(m.courses))
	for _, c := range m.courses {
		claim(c.ID, "course")
		courses[c.ID] = true
	}
	lessons := make(map[string]string, len(m.lessons))
	for _, l := range m.lessons {
		claim(l.ID, "lesson")
		lessons[l.ID] = l.CourseID
	}
	for _, e := range m.exercises {
		claim(e.ID, "exercise")
	}

	// Check parents
	for _, l := range m.lessons {
		if !courses[l.CourseID] {
			errs = append(errs, fmt.Sprintf("lesson %q references nonexistent course %q", l.ID, l.CourseID))
		}
	}
	for _, e := range m.exercises {
		courseID, ok := lessons[e.LessonID]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("exercise %q references nonexistent lesson %q", e.ID, e.LessonID))
		case courseID != e.CourseID:
			errs = append(errs, fmt.Sprintf("exercise %q belongs to course %q but its lesson %q belongs to %q",
				e.ID, e.CourseID, e.LessonID, courseID))
		}
	}

	// Check for dangling dependencies. Courses depend on courses and lessons
	// on lessons.
	for _, c := range m.courses {
		for _, dep := range c.Dependencies {
			if !courses[dep] {
				errs = append(errs, fmt.Sprintf("course %q references nonexistent dependency %q", c.ID, dep))
			}
		}
	}
	for _, l := range m.lessons {
		for _, dep := range l.Dependencies {
			if _, ok := lessons[dep]; !ok {
				errs = append(errs, fmt.Sprintf("lesson %q references nonexistent dependency %q", l.ID, dep))
			}
		}
	}

	if len(errs) == 0 {
		if cycle := findCycle(m); len(cycle) > 0 {
			errs = append(errs, fmt.Sprintf("cycle detected involving units: %s", strings.Join(cycle, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("course library validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// findCycle runs Kahn's algorithm over the course and lesson dependency
// edges and returns the units left with a positive in-degree.
func findCycle(m *manifests) []string {
	inDegree := make(map[string]int)
	adjList := make(map[string][]string)
	var ids []string
	add := func(id string, deps []string) {
		ids = append(ids, id)
		inDegree[id] = len(deps)
		for _, dep := range deps {
			adjList[dep] = append(adjList[dep], id)
		}
	}
	for _, c := range m.courses {
		add(c.ID, c.Dependencies)
	}
	for _, l := range m.lessons {
		add(l.ID, l.Dependencies)
	}

	var queue []string
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	if visited == len(ids) {
		return nil
	}
	var cycleNodes []string
	for _, id := range ids {
		if inDegree[id] > 0 {
			cycleNodes = append(cycleNodes, id)
		}
	}
	return cycleNodes
}

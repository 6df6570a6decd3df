package library

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// Manifest file names recognized while walking a library.
const (
	CourseManifest   = "course_manifest.json"
	LessonManifest   = "lesson_manifest.json"
	ExerciseManifest = "exercise_manifest.json"
)

// ContentRef points at markdown that is either inlined or stored in a file
// relative to the manifest.
type ContentRef struct {
	Markdown *string `json:"markdown,omitempty"`
	Path     string  `json:"path,omitempty"`
}

// Course is a parsed course manifest.
type Course struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Authors      []string            `json:"authors"`
	Dependencies []string            `json:"dependencies"`
	Metadata     map[string][]string `json:"metadata"`
	Material     *ContentRef         `json:"material"`
	Instructions *ContentRef         `json:"instructions"`

	dir string
}

// Lesson is a parsed lesson manifest.
type Lesson struct {
	ID           string              `json:"id"`
	CourseID     string              `json:"course_id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Dependencies []string            `json:"dependencies"`
	Metadata     map[string][]string `json:"metadata"`
	Material     *ContentRef         `json:"material"`
	Instructions *ContentRef         `json:"instructions"`

	dir string
}

// Exercise is a parsed exercise manifest.
type Exercise struct {
	ID           string      `json:"id"`
	LessonID     string      `json:"lesson_id"`
	CourseID     string      `json:"course_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ExerciseType string      `json:"exercise_type"`
	Front        ContentRef  `json:"front"`
	Back         *ContentRef `json:"back"`

	dir string
}

// manifests is everything found under a library root, sorted by id.
type manifests struct {
	courses   []*Course
	lessons   []*Lesson
	exercises []*Exercise
}

// loadManifests walks root and parses every manifest file. Directories whose
// name starts with a dot are skipped.
func loadManifests(root string) (*manifests, error) {
	m := &manifests{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch d.Name() {
		case CourseManifest:
			c := &Course{dir: filepath.Dir(path)}
			if err := decodeManifest(schemaCourse, path, c); err != nil {
				return err
			}
			m.courses = append(m.courses, c)
		case LessonManifest:
			l := &Lesson{dir: filepath.Dir(path)}
			if err := decodeManifest(schemaLesson, path, l); err != nil {
				return err
			}
			m.lessons = append(m.lessons, l)
		case ExerciseManifest:
			e := &Exercise{dir: filepath.Dir(path)}
			if err := decodeManifest(schemaExercise, path, e); err != nil {
				return err
			}
			m.exercises = append(m.exercises, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(m.courses, func(i, j int) bool { return m.courses[i].ID < m.courses[j].ID })
	sort.Slice(m.lessons, func(i, j int) bool { return m.lessons[i].ID < m.lessons[j].ID })
	sort.Slice(m.exercises, func(i, j int) bool { return m.exercises[i].ID < m.exercises[j].ID })
	return m, nil
}

// decodeManifest validates the file at path against the named schema and
// decodes it into v.
func decodeManifest(schema, path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if err := validateDocument(schema, path, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	return nil
}

// load resolves a content reference relative to dir. A nil reference
// yields nil content.
func (r *ContentRef) load(dir string) (*scheduler.Content, error) {
	if r == nil {
		return nil, nil
	}
	if r.Markdown != nil {
		return &scheduler.Content{Text: *r.Markdown}, nil
	}
	path := r.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return &scheduler.Content{Text: string(raw), Source: path}, nil
}

// matchesMetadata reports whether any of the metadata values for key equal value.
func matchesMetadata(md map[string][]string, kv scheduler.KeyValue) bool {
	for _, v := range md[kv.Key] {
		if v == kv.Value {
			return true
		}
	}
	return false
}

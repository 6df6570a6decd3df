package library

import (
	"context"
	"io"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// UnitManifest returns the declaration of a course, lesson, or exercise.
func (l *Library) UnitManifest(_ context.Context, unitID string) (*scheduler.UnitManifest, error) {
	gr := l.graph
	switch {
	case gr.courses[unitID] != nil:
		c := gr.courses[unitID]
		return &scheduler.UnitManifest{
			ID:           c.ID,
			Type:         scheduler.UnitCourse,
			Name:         c.Name,
			Description:  c.Description,
			Authors:      c.Authors,
			Dependencies: c.Dependencies,
			Metadata:     c.Metadata,
			Sources:      sources(namedRef{"material", c.Material}, namedRef{"instructions", c.Instructions}),
		}, nil
	case gr.lessons[unitID] != nil:
		ls := gr.lessons[unitID]
		return &scheduler.UnitManifest{
			ID:           ls.ID,
			Type:         scheduler.UnitLesson,
			Name:         ls.Name,
			Description:  ls.Description,
			CourseID:     ls.CourseID,
			Dependencies: ls.Dependencies,
			Metadata:     ls.Metadata,
			Sources:      sources(namedRef{"material", ls.Material}, namedRef{"instructions", ls.Instructions}),
		}, nil
	case gr.exercises[unitID] != nil:
		e := gr.exercises[unitID]
		return &scheduler.UnitManifest{
			ID:           e.ID,
			Type:         scheduler.UnitExercise,
			Name:         e.Name,
			Description:  e.Description,
			CourseID:     e.CourseID,
			LessonID:     e.LessonID,
			ExerciseType: e.ExerciseType,
			Sources:      sources(namedRef{"front", &e.Front}, namedRef{"back", e.Back}),
		}, nil
	}
	return nil, notFound("unit", unitID)
}

// ExportGraph writes the dependency graph in DOT format.
func (l *Library) ExportGraph(_ context.Context, w io.Writer) error {
	return l.graph.writeDOT(w)
}

type namedRef struct {
	field string
	ref   *ContentRef
}

// sources lists the content references that are set. Paths are reported as
// written in the manifest.
func sources(refs ...namedRef) []scheduler.ContentSource {
	var out []scheduler.ContentSource
	for _, r := range refs {
		if r.ref == nil {
			continue
		}
		src := scheduler.ContentSource{Field: r.field}
		if r.ref.Markdown == nil {
			src.Path = r.ref.Path
		}
		out = append(out, src)
	}
	return out
}

package library

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// graph holds the unit hierarchy with precomputed indices.
type graph struct {
	courses   map[string]*Course
	lessons   map[string]*Lesson
	exercises map[string]*Exercise

	courseIDs         []string
	lessonsByCourse   map[string][]string
	exercisesByLesson map[string][]string
	dependents        map[string][]string
	topoIndex         map[string]int
}

// buildGraph constructs the graph from validated manifests.
// It builds all indices including topological order (Kahn's algorithm).
func buildGraph(m *manifests) *graph {
	gr := &graph{
		courses:           make(map[string]*Course, len(m.courses)),
		lessons:           make(map[string]*Lesson, len(m.lessons)),
		exercises:         make(map[string]*Exercise, len(m.exercises)),
		lessonsByCourse:   make(map[string][]string),
		exercisesByLesson: make(map[string][]string),
		dependents:        make(map[string][]string),
		topoIndex:         make(map[string]int),
	}

	deps := make(map[string][]string)
	for _, c := range m.courses {
		gr.courses[c.ID] = c
		gr.courseIDs = append(gr.courseIDs, c.ID)
		deps[c.ID] = c.Dependencies
	}
	for _, l := range m.lessons {
		gr.lessons[l.ID] = l
		gr.lessonsByCourse[l.CourseID] = append(gr.lessonsByCourse[l.CourseID], l.ID)
		deps[l.ID] = l.Dependencies
	}
	for _, e := range m.exercises {
		gr.exercises[e.ID] = e
		gr.exercisesByLesson[e.LessonID] = append(gr.exercisesByLesson[e.LessonID], e.ID)
	}

	// Build reverse edges (dependents)
	for id, ds := range deps {
		for _, dep := range ds {
			gr.dependents[dep] = append(gr.dependents[dep], id)
		}
	}
	for id := range gr.dependents {
		sort.Strings(gr.dependents[id])
	}

	// Topological sort (Kahn's algorithm)
	inDegree := make(map[string]int, len(deps))
	var queue []string
	for id, ds := range deps {
		inDegree[id] = len(ds)
		if len(ds) == 0 {
			queue = append(queue, id)
		}
	}
	// Sort initial queue for deterministic ordering
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		gr.topoIndex[id] = len(gr.topoIndex)
		for _, depID := range gr.dependents[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	return gr
}

// unitType returns the type of id, or false when the library has no such
// unit.
func (gr *graph) unitType(id string) (scheduler.UnitType, bool) {
	switch {
	case gr.courses[id] != nil:
		return scheduler.UnitCourse, true
	case gr.lessons[id] != nil:
		return scheduler.UnitLesson, true
	case gr.exercises[id] != nil:
		return scheduler.UnitExercise, true
	}
	return "", false
}

// dependencies returns the declared dependencies of a course or lesson.
func (gr *graph) dependencies(id string) []string {
	if c := gr.courses[id]; c != nil {
		return c.Dependencies
	}
	if l := gr.lessons[id]; l != nil {
		return l.Dependencies
	}
	return nil
}

// exerciseOrder reports whether exercise a should be introduced before b:
// course dependency order first, then lesson dependency order, then id.
func (gr *graph) exerciseOrder(a, b *Exercise) bool {
	if ca, cb := gr.topoIndex[a.CourseID], gr.topoIndex[b.CourseID]; ca != cb {
		return ca < cb
	}
	if la, lb := gr.topoIndex[a.LessonID], gr.topoIndex[b.LessonID]; la != lb {
		return la < lb
	}
	return a.ID < b.ID
}

func units(ids []string, t scheduler.UnitType) []scheduler.Unit {
	out := make([]scheduler.Unit, 0, len(ids))
	for _, id := range ids {
		out = append(out, scheduler.Unit{ID: id, Type: t})
	}
	return out
}

// writeDOT writes courses and lessons as a DOT digraph. Edges point from a
// unit to its dependents, and each course points at the lessons it starts
// with.
func (gr *graph) writeDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph dependent_graph {\n")
	for _, id := range gr.courseIDs {
		fmt.Fprintf(&b, "    %q [shape=box];\n", id)
		for _, dep := range gr.dependents[id] {
			fmt.Fprintf(&b, "    %q -> %q;\n", id, dep)
		}
		for _, lessonID := range gr.startingLessons(id) {
			fmt.Fprintf(&b, "    %q -> %q [style=dashed];\n", id, lessonID)
		}
	}
	for _, id := range sortedKeys(gr.lessons) {
		fmt.Fprintf(&b, "    %q;\n", id)
		for _, dep := range gr.dependents[id] {
			fmt.Fprintf(&b, "    %q -> %q;\n", id, dep)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// startingLessons returns the lessons of a course that depend on no other
// lesson of the same course.
func (gr *graph) startingLessons(courseID string) []string {
	var out []string
	for _, id := range gr.lessonsByCourse[courseID] {
		starting := true
		for _, dep := range gr.lessons[id].Dependencies {
			if l := gr.lessons[dep]; l != nil && l.CourseID == courseID {
				starting = false
				break
			}
		}
		if starting {
			out = append(out, id)
		}
	}
	return out
}

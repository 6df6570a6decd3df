package library

import (
	"context"
)

// CourseSummary describes one course of an opened library.
type CourseSummary struct {
	ID        string
	Name      string
	Lessons   int
	Exercises int

	// Practiced is the number of exercises with at least one score.
	Practiced int

	// Due is the number of practiced exercises whose review date has come.
	Due int

	// MeanScore averages the most recent score of each practiced exercise.
	// It is 0 when nothing has been practiced.
	MeanScore float64
}

// Summary returns one entry per course, ordered by id.
func (l *Library) Summary(context.Context) ([]CourseSummary, error) {
	states := l.reviews.AllReviewStates()
	now := l.now()

	out := make([]CourseSummary, 0, len(l.graph.courseIDs))
	for _, id := range l.graph.courseIDs {
		s := CourseSummary{ID: id, Name: l.graph.courses[id].Name}
		total := 0
		for _, lessonID := range l.graph.lessonsByCourse[id] {
			s.Lessons++
			for _, exID := range l.graph.exercisesByLesson[lessonID] {
				s.Exercises++
				rs, ok := states[exID]
				if !ok {
					continue
				}
				s.Practiced++
				total += int(rs.LastScore)
				if rs.IsDue(now) {
					s.Due++
				}
			}
		}
		if s.Practiced > 0 {
			s.MeanScore = float64(total) / float64(s.Practiced)
		}
		out = append(out, s)
	}
	return out, nil
}

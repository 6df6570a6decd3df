package spacedrep

import (
	"sort"
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// Scheduler tracks review state per exercise.
type Scheduler struct {
	reviews map[string]*ReviewState
}

func NewScheduler() *Scheduler {
	return &Scheduler{reviews: make(map[string]*ReviewState)}
}

// FromHistory rebuilds review state from score histories keyed by exercise
// ID. Each history may be in any order.
func FromHistory(history map[string][]scheduler.ScoreRecord) *Scheduler {
	s := NewScheduler()
	for id, records := range history {
		sorted := append([]scheduler.ScoreRecord(nil), records...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})
		for _, r := range sorted {
			s.RecordReview(id, r.Score, r.Timestamp)
		}
	}
	return s
}

// RecordReview updates the review schedule after a score.
func (s *Scheduler) RecordReview(exerciseID string, score scheduler.MasteryScore, now time.Time) {
	rs, seen := s.reviews[exerciseID]
	if !seen {
		rs = &ReviewState{ExerciseID: exerciseID}
		s.reviews[exerciseID] = rs
	}
	rs.LastReviewDate = now
	rs.LastScore = score

	switch {
	case score >= PassingScore:
		rs.ConsecutiveHits++
		if seen && !rs.Graduated {
			rs.Stage++
		}
		if rs.ConsecutiveHits >= GraduationStage {
			rs.Graduated = true
		}
		rs.NextReviewDate = now.AddDate(0, 0, rs.CurrentIntervalDays())
	case score <= FailingScore:
		rs.ConsecutiveHits = 0
		rs.Stage = 0
		rs.Graduated = false
		rs.NextReviewDate = now
	default:
		rs.NextReviewDate = now.AddDate(0, 0, rs.CurrentIntervalDays())
	}
}

// DueExercises returns exercises that are due for review, sorted by most
// overdue first.
func (s *Scheduler) DueExercises(now time.Time) []string {
	type dueExercise struct {
		id      string
		overdue float64
	}
	var due []dueExercise

	for id, rs := range s.reviews {
		if rs.IsDue(now) {
			due = append(due, dueExercise{id: id, overdue: rs.OverdueDays(now)})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}

// GetReviewState returns the review state for an exercise, or nil if it
// has never been scored.
func (s *Scheduler) GetReviewState(exerciseID string) *ReviewState {
	return s.reviews[exerciseID]
}

// AllReviewStates returns all review states.
func (s *Scheduler) AllReviewStates() map[string]*ReviewState {
	result := make(map[string]*ReviewState, len(s.reviews))
	for id, rs := range s.reviews {
		result[id] = rs
	}
	return result
}

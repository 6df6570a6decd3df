package spacedrep

import (
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// ReviewState holds the spaced repetition state for a single exercise.
type ReviewState struct {
	ExerciseID      string
	Stage           int
	NextReviewDate  time.Time
	ConsecutiveHits int
	Graduated       bool
	LastReviewDate  time.Time
	LastScore       scheduler.MasteryScore
}

// IsDue returns true if the exercise is due for review (at or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewDate)
}

// OverdueDays returns how many days past due the exercise is. Returns 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewDate) {
		return 0
	}
	return now.Sub(rs.NextReviewDate).Hours() / 24.0
}

// CurrentIntervalDays returns the current interval in days.
func (rs *ReviewState) CurrentIntervalDays() int {
	if rs.Graduated {
		return GraduatedIntervalDays
	}
	if rs.Stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[rs.Stage]
}

package spacedrep

import "github.com/trane-project/trane-cli/internal/scheduler"

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 = first review after the exercise is first passed.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationStage is the number of consecutive passing scores after which
// an exercise graduates.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated exercises.
const GraduatedIntervalDays = 90

const (
	// PassingScore is the lowest score that advances an exercise's stage.
	PassingScore scheduler.MasteryScore = 4

	// FailingScore is the highest score that sends an exercise back to
	// stage 0.
	FailingScore scheduler.MasteryScore = 2
)

// HalfLifeDays is the age at which a score's distance above the minimum
// has decayed by half.
const HalfLifeDays = 30.0

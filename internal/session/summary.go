package session

import (
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
	"github.com/trane-project/trane-cli/internal/spacedrep"
)

// SessionSummary describes one run of the shell.
type SessionSummary struct {
	Duration  time.Duration
	Exercises int
	Scores    int
	MeanScore float64

	// Passed is the fraction of submitted scores at or above the passing
	// score.
	Passed float64
}

type sessionStats struct {
	exercises int
	scores    int
	total     int
	passed    int
}

func (s *sessionStats) recordScore(score scheduler.MasteryScore) {
	s.scores++
	s.total += int(score)
	if score >= spacedrep.PassingScore {
		s.passed++
	}
}

// Summary reports the exercises shown and scores submitted since the
// dispatcher was created.
func (d *Dispatcher) Summary() SessionSummary {
	sum := SessionSummary{
		Duration:  d.now().Sub(d.started),
		Exercises: d.stats.exercises,
		Scores:    d.stats.scores,
	}
	if d.stats.scores > 0 {
		sum.MeanScore = float64(d.stats.total) / float64(d.stats.scores)
		sum.Passed = float64(d.stats.passed) / float64(d.stats.scores)
	}
	return sum
}

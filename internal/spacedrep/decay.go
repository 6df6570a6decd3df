package spacedrep

import (
	"math"
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

// DecayScore aggregates scores given newest first. Each score decays toward
// the minimum with its age, and scores are weighted 1/(i+1) by recency.
// Returns 0 for an empty history.
func DecayScore(records []scheduler.ScoreRecord, now time.Time) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum, weights float64
	for i, r := range records {
		ageDays := now.Sub(r.Timestamp).Hours() / 24.0
		if ageDays < 0 {
			ageDays = 0
		}
		floor := float64(scheduler.MinScore)
		decayed := floor + (float64(r.Score)-floor)*math.Pow(0.5, ageDays/HalfLifeDays)

		w := 1.0 / float64(i+1)
		sum += w * decayed
		weights += w
	}
	return sum / weights
}

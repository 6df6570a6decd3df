package spacedrep

import (
	"math"
	"testing"
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

func TestDecayScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		records []scheduler.ScoreRecord
		want    float64
	}{
		{"empty", nil, 0},
		{"single fresh", []scheduler.ScoreRecord{{Score: 4, Timestamp: now}}, 4},
		{"future timestamp", []scheduler.ScoreRecord{{Score: 3, Timestamp: now.Add(time.Hour)}}, 3},
		{"one half-life", []scheduler.ScoreRecord{{Score: 5, Timestamp: now.AddDate(0, 0, -30)}}, 3},
		{
			"recency weighted",
			[]scheduler.ScoreRecord{{Score: 5, Timestamp: now}, {Score: 2, Timestamp: now}},
			(5*1.0 + 2*0.5) / 1.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecayScore(tt.records, now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DecayScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

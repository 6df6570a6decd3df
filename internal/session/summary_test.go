package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trane-project/trane-cli/internal/mantra"
	"github.com/trane-project/trane-cli/internal/scheduler"
)

func TestSummary(t *testing.T) {
	lib := scheduler.NewMockLibrary(exercise("E1"), exercise("E2"), exercise("E3"))
	opener := &scheduler.MockOpener{Libraries: map[string]*scheduler.MockLibrary{"./lib": lib}}
	now := testNow
	d := NewDispatcher(opener, NewState(mantra.Fixed(0)), Config{Now: func() time.Time { return now }})

	assert.Equal(t, SessionSummary{}, d.Summary())

	for _, line := range []string{"open ./lib", "next", "score 5", "next", "score 2", "next"} {
		mustRun(t, d, line)
	}
	now = now.Add(10 * time.Minute)
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, SessionSummary{
		Duration:  10 * time.Minute,
		Exercises: 3,
		Scores:    2,
		MeanScore: 3.5,
		Passed:    0.5,
	}, d.Summary())
}

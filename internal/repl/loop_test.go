package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trane-project/trane-cli/internal/mantra"
	"github.com/trane-project/trane-cli/internal/render"
	"github.com/trane-project/trane-cli/internal/scheduler"
	"github.com/trane-project/trane-cli/internal/session"
)

// scriptReader replays lines and errors, then returns io.EOF.
type scriptReader struct {
	steps   []step
	prompts []string
	history []string
	closed  bool
}

type step struct {
	line string
	err  error
}

func lines(ls ...string) []step {
	out := make([]step, 0, len(ls))
	for _, l := range ls {
		out = append(out, step{line: l})
	}
	return out
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.steps) == 0 {
		return "", io.EOF
	}
	s := r.steps[0]
	r.steps = r.steps[1:]
	return s.line, s.err
}

func (r *scriptReader) AddHistory(line string) { r.history = append(r.history, line) }
func (r *scriptReader) Close() error           { r.closed = true; return nil }

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func exercise(id string) *scheduler.Exercise {
	return &scheduler.Exercise{
		ID:       id,
		LessonID: "L",
		CourseID: "C",
		Front:    scheduler.Content{Text: "Play " + id},
	}
}

type harness struct {
	lib    *scheduler.MockLibrary
	reader *scriptReader
	out    *bytes.Buffer
	loop   *Loop
}

func newHarness(steps []step, exercises ...*scheduler.Exercise) *harness {
	lib := scheduler.NewMockLibrary(exercises...)
	opener := &scheduler.MockOpener{Libraries: map[string]*scheduler.MockLibrary{"./lib": lib}}
	d := session.NewDispatcher(opener, session.NewState(mantra.Fixed(3)), session.Config{})
	h := &harness{
		lib:    lib,
		reader: &scriptReader{steps: steps},
		out:    &bytes.Buffer{},
	}
	h.loop = New(Config{
		Reader:     h.reader,
		Out:        h.out,
		Dispatcher: d,
		Renderer:   render.New(render.Options{}),
	})
	return h
}

func TestRun_EndOfInput(t *testing.T) {
	h := newHarness(nil)
	require.NoError(t, h.loop.Run(context.Background()))
	assert.Empty(t, h.out.String())
	assert.Equal(t, []string{Prompt}, h.reader.prompts)
}

func TestRun_OpenNextScoreNext(t *testing.T) {
	h := newHarness(lines("open ./lib", "next", "score 2", "next"), exercise("E1"), exercise("E2"))
	require.NoError(t, h.loop.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Successfully opened course library at mock")
	assert.Contains(t, out, "Course ID: C\nLesson ID: L\nExercise ID: E1\n\nPlay E1\n")
	assert.Contains(t, out, "Exercise ID: E2\n")
	assert.Equal(t, []scheduler.SubmittedScore{{ExerciseID: "E1", Score: 2}}, h.lib.Submitted)
	assert.True(t, h.lib.Closed)
	assert.Contains(t, out, "Exercises shown: 2\nScores submitted: 1")
}

func TestRun_StagedScoreFlushedAtEndOfInput(t *testing.T) {
	h := newHarness(lines("open ./lib", "next", "score 5"), exercise("E1"))
	require.NoError(t, h.loop.Run(context.Background()))
	assert.Equal(t, []scheduler.SubmittedScore{{ExerciseID: "E1", Score: 5}}, h.lib.Submitted)
}

func TestRun_QuitStopsReading(t *testing.T) {
	h := newHarness(lines("open ./lib", "next", "score 4", "quit", "next"), exercise("E1"), exercise("E2"))
	require.NoError(t, h.loop.Run(context.Background()))

	assert.Len(t, h.reader.prompts, 4)
	assert.Equal(t, []scheduler.SubmittedScore{{ExerciseID: "E1", Score: 4}}, h.lib.Submitted)
	assert.NotContains(t, h.out.String(), "E2")
	assert.True(t, h.lib.Closed)
}

func TestRun_InterruptKeepsPrompting(t *testing.T) {
	h := newHarness([]step{{err: ErrInterrupted}, {line: "mantra-count"}})
	require.NoError(t, h.loop.Run(context.Background()))
	assert.Equal(t, InterruptHint+"\nMantra count: 3\n", h.out.String())
	assert.Len(t, h.reader.prompts, 3)
}

func TestRun_ErrorsDoNotStopTheLoop(t *testing.T) {
	h := newHarness(lines("frobnicate", "next", "score 9", "mantra-count"))
	require.NoError(t, h.loop.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, `Error: unknown command "frobnicate"`)
	assert.Contains(t, out, "Error: no course library is open")
	assert.Contains(t, out, "Error: invalid score 9")
	assert.Contains(t, out, "Mantra count: 3")
}

func TestRun_HistorySkipsBlankAndComments(t *testing.T) {
	h := newHarness(lines("", "  # note", "  mantra-count  ", "bogus"))
	require.NoError(t, h.loop.Run(context.Background()))
	assert.Equal(t, []string{"mantra-count", "bogus"}, h.reader.history)
}

func TestRun_ReadFailureIsFatal(t *testing.T) {
	h := newHarness([]step{{line: "open ./lib"}, {line: "next"}, {line: "score 3"}, {err: errors.New("tty gone")}},
		exercise("E1"))
	err := h.loop.Run(context.Background())

	var fatal *FatalIOError
	require.True(t, errors.As(err, &fatal), "got %v", err)
	assert.Equal(t, "read", fatal.Op)
	// The staged score still reaches the library.
	assert.Equal(t, []scheduler.SubmittedScore{{ExerciseID: "E1", Score: 3}}, h.lib.Submitted)
}

func TestRun_WriteFailureIsFatal(t *testing.T) {
	h := newHarness(lines("mantra-count", "mantra-count"))
	h.loop.cfg.Out = failWriter{}

	err := h.loop.Run(context.Background())
	var fatal *FatalIOError
	require.True(t, errors.As(err, &fatal), "got %v", err)
	assert.Equal(t, "write", fatal.Op)
	assert.Len(t, h.reader.prompts, 1)
}

func TestRun_ShutdownFailureIsReported(t *testing.T) {
	h := newHarness(lines("open ./lib", "next", "score 3"), exercise("E1"))
	h.lib.Errors["SubmitScore"] = errors.New("disk full")

	require.NoError(t, h.loop.Run(context.Background()))
	assert.Contains(t, h.out.String(), "disk full")
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "b\nc\n", lastLines("a\nb\nc\n", 2))
	assert.Equal(t, "a\nb\n", lastLines("a\nb\n", 5))
	assert.Equal(t, "a\nb\n", lastLines("a\nb\n", 0))
	assert.Equal(t, "", lastLines("", 3))
}

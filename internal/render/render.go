// Package render formats dispatch results and errors as terminal text.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/trane-project/trane-cli/internal/command"
	"github.com/trane-project/trane-cli/internal/scheduler"
	"github.com/trane-project/trane-cli/internal/session"
)

// Options configures a Renderer.
type Options struct {
	// Color enables lipgloss styling.
	Color bool

	// Markdown renders content through glamour. When false content is
	// printed verbatim.
	Markdown bool

	// WordWrap is the markdown wrap width. 0 means 80.
	WordWrap int
}

// ForOutput turns color and markdown styling off unless the output is a
// terminal.
func (o Options) ForOutput(isTerminal bool) Options {
	if !isTerminal {
		o.Color = false
		o.Markdown = false
	}
	return o
}

// Renderer maps results and errors to text. It holds no session state.
type Renderer struct {
	opts  Options
	theme Theme
	md    *glamour.TermRenderer
}

// New creates a Renderer. Markdown rendering silently falls back to plain
// text when glamour cannot be initialized.
func New(opts Options) *Renderer {
	if opts.WordWrap == 0 {
		opts.WordWrap = 80
	}
	r := &Renderer{opts: opts, theme: ColorTheme()}
	if opts.Markdown {
		style := styles.NoTTYStyle
		if opts.Color {
			style = styles.DarkStyle
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(opts.WordWrap),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Render(text)
}

// Result renders a dispatch result. The returned text ends with a newline
// unless it is empty.
func (r *Renderer) Result(res session.Result) string {
	var b strings.Builder
	switch v := res.(type) {
	case session.Opened:
		fmt.Fprintf(&b, "Successfully opened course library at %s\n", r.style(r.theme.ID, v.Path))
		if v.Warning != "" {
			fmt.Fprintf(&b, "%s %s\n", r.style(r.theme.Error, "Warning:"), v.Warning)
		}

	case session.ExerciseShown:
		r.exercise(&b, v.Exercise)

	case session.NothingToDo:
		if v.Filter == nil {
			b.WriteString("No exercises are available to practice\n")
		} else {
			fmt.Fprintf(&b, "No exercises match the current filter (%s)\n", v.Filter)
		}

	case session.ScoreStaged:
		fmt.Fprintf(&b, "%s Score %d for exercise %s will be submitted with the next exercise\n",
			r.style(r.theme.Success, "✓"), v.Score, r.style(r.theme.ID, v.ExerciseID))

	case session.ContentShown:
		if v.Content == nil {
			fmt.Fprintf(&b, "%s has no %s\n", capitalize(string(v.Scope)), v.Kind)
			break
		}
		fmt.Fprintf(&b, "%s %s for %s:\n\n", capitalize(string(v.Scope)), v.Kind, r.style(r.theme.ID, v.UnitID))
		b.WriteString(r.markdown(v.Content.Text))

	case session.AnswerShown:
		r.identity(&b, v.Exercise)
		b.WriteString("\n")
		if v.Answer == nil {
			b.WriteString("Exercise has no answer\n")
			break
		}
		b.WriteString(r.style(r.theme.Heading, "Answer:") + "\n\n")
		b.WriteString(r.markdown(v.Answer.Text))

	case session.Message:
		b.WriteString(v.Text + "\n")

	case session.UnitList:
		r.unitList(&b, v)

	case session.SavedFilterList:
		if len(v.Filters) == 0 {
			b.WriteString("No saved unit filters\n")
			break
		}
		b.WriteString(r.style(r.theme.Heading, "Saved unit filters:") + "\n")
		fmt.Fprintf(&b, "%-30s %s\n", "ID", "Description")
		for _, f := range v.Filters {
			fmt.Fprintf(&b, "%-30s %s\n", f.ID, f.Description)
		}

	case session.ScoreHistory:
		r.scores(&b, v)

	case session.Mantras:
		fmt.Fprintf(&b, "Mantra count: %d\n", v.Count)

	case session.FilterShown:
		if v.Filter == nil {
			b.WriteString("No filter is set\n")
			break
		}
		fmt.Fprintf(&b, "%s %s\n", r.style(r.theme.Label, "Filter:"), v.Filter)

	case session.UnitDescribed:
		fmt.Fprintf(&b, "Unit ID: %s\n", v.Unit.ID)
		fmt.Fprintf(&b, "Unit Type: %s\n", v.Unit.Type)
		if v.Manifest != nil {
			r.manifest(&b, v.Manifest)
		}

	case session.UnitTyped:
		fmt.Fprintf(&b, "The type of the unit with ID %s is %s\n", v.Unit.ID, v.Unit.Type)

	case session.HelpText:
		b.WriteString(strings.TrimRight(v.Text, "\n") + "\n")

	case session.Goodbye:
	}
	return b.String()
}

// manifest writes the declared fields of a unit, skipping empty ones.
func (r *Renderer) manifest(b *strings.Builder, m *scheduler.UnitManifest) {
	b.WriteString("\n" + r.style(r.theme.Heading, "Unit manifest:") + "\n")
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(b, "  %s %s\n", r.style(r.theme.Label, label+":"), value)
		}
	}
	field("Name", m.Name)
	field("Description", m.Description)
	field("Course ID", m.CourseID)
	field("Lesson ID", m.LessonID)
	field("Exercise type", m.ExerciseType)
	field("Authors", strings.Join(m.Authors, ", "))
	field("Dependencies", strings.Join(m.Dependencies, ", "))
	if len(m.Metadata) > 0 {
		fmt.Fprintf(b, "  %s\n", r.style(r.theme.Label, "Metadata:"))
		keys := make([]string, 0, len(m.Metadata))
		for k := range m.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "    %s: %s\n", k, strings.Join(m.Metadata[k], ", "))
		}
	}
	if len(m.Sources) > 0 {
		fmt.Fprintf(b, "  %s\n", r.style(r.theme.Label, "Content:"))
		for _, src := range m.Sources {
			path := src.Path
			if path == "" {
				path = "(inline)"
			}
			fmt.Fprintf(b, "    %s: %s\n", src.Field, path)
		}
	}
}

// identity writes the three identifier lines of an exercise.
func (r *Renderer) identity(b *strings.Builder, ex *scheduler.Exercise) {
	fmt.Fprintf(b, "%s %s\n", r.style(r.theme.Label, "Course ID:"), r.style(r.theme.ID, ex.CourseID))
	fmt.Fprintf(b, "%s %s\n", r.style(r.theme.Label, "Lesson ID:"), r.style(r.theme.ID, ex.LessonID))
	fmt.Fprintf(b, "%s %s\n", r.style(r.theme.Label, "Exercise ID:"), r.style(r.theme.ID, ex.ID))
}

func (r *Renderer) exercise(b *strings.Builder, ex *scheduler.Exercise) {
	r.identity(b, ex)
	b.WriteString("\n")
	if ex.Name != "" {
		fmt.Fprintf(b, "%s %s\n", r.style(r.theme.Label, "Exercise name:"), ex.Name)
	}
	if ex.Description != "" {
		fmt.Fprintf(b, "%s %s\n", r.style(r.theme.Label, "Exercise description:"), ex.Description)
	}
	if ex.Name != "" || ex.Description != "" {
		b.WriteString("\n")
	}
	b.WriteString(r.markdown(ex.Front.Text))
}

func (r *Renderer) unitList(b *strings.Builder, v session.UnitList) {
	if len(v.Units) == 0 {
		b.WriteString(v.Empty + "\n")
		return
	}
	b.WriteString(r.style(r.theme.Heading, v.Heading) + "\n\n")
	if v.WithTypes {
		fmt.Fprintf(b, "%-15s %s\n", "Unit Type", "Unit ID")
		for _, u := range v.Units {
			typ := string(u.Type)
			if typ == "" {
				typ = "Unknown"
			}
			fmt.Fprintf(b, "%-15s %s\n", typ, u.ID)
		}
		return
	}
	for _, u := range v.Units {
		b.WriteString(u.ID + "\n")
	}
}

func (r *Renderer) scores(b *strings.Builder, v session.ScoreHistory) {
	if len(v.Scores) == 0 {
		fmt.Fprintf(b, "No scores for exercise %s\n", v.ExerciseID)
		return
	}
	fmt.Fprintf(b, "Scores for exercise %s:\n\n", r.style(r.theme.ID, v.ExerciseID))
	fmt.Fprintf(b, "Score: %s\n\n", r.style(lipgloss.NewStyle().Foreground(Accent).Bold(true), fmt.Sprintf("%.2f", v.Aggregate)))
	b.WriteString("Raw scores:\n")

	rows := make([][]string, 0, len(v.Scores))
	for _, s := range v.Scores {
		rows = append(rows, []string{s.Timestamp.Local().Format(time.DateTime), fmt.Sprintf("%d", s.Score)})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Score").
		Rows(rows...)
	if r.opts.Color {
		t = t.BorderStyle(r.theme.Border).
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return s.Inherit(r.theme.Heading)
				}
				return s
			})
	} else {
		t = t.StyleFunc(func(int, int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
	}
	b.WriteString(t.String() + "\n")
}

// Summary renders the end-of-session summary. It is empty when no exercise
// was shown.
func (r *Renderer) Summary(s session.SessionSummary) string {
	if s.Exercises == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.style(r.theme.Heading, "Session summary:") + "\n")
	fmt.Fprintf(&b, "Duration: %s\n", s.Duration.Round(time.Second))
	fmt.Fprintf(&b, "Exercises shown: %d\n", s.Exercises)
	if s.Scores > 0 {
		fmt.Fprintf(&b, "Scores submitted: %d (mean %.2f, %.0f%% passing)\n", s.Scores, s.MeanScore, s.Passed*100)
	}
	return b.String()
}

// markdown renders content and guarantees a trailing newline.
func (r *Renderer) markdown(text string) string {
	if r.md != nil {
		if out, err := r.md.Render(text); err == nil {
			text = out
		}
	}
	return strings.TrimRight(text, "\n") + "\n"
}

// Error renders a failed parse or dispatch.
func (r *Renderer) Error(err error) string {
	var b strings.Builder
	prefix := r.style(r.theme.Error, "Error:")

	var pe *command.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(&b, "%s %s\n", prefix, pe.Msg)
		if pe.Usage != "" {
			b.WriteString("\n" + strings.TrimRight(pe.Usage, "\n") + "\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%s %v\n", prefix, err)
	if hint := hintFor(err); hint != "" {
		b.WriteString(r.style(r.theme.Hint, hint) + "\n")
	}
	return b.String()
}

func hintFor(err error) string {
	var openErr *session.LibraryOpenError
	switch {
	case errors.Is(err, session.ErrNoLibraryOpen):
		return "Use the open command to open a course library first"
	case errors.Is(err, session.ErrNoCurrentExercise):
		return "Use the next command to get an exercise first"
	case errors.As(err, &openErr):
		return "Check that the directory exists and contains valid course manifests"
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

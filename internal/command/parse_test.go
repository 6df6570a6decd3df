package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

func TestWithProgramName(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"empty", nil, []string{"trane"}},
		{"injected", []string{"next"}, []string{"trane", "next"}},
		{"already present", []string{"trane", "next"}, []string{"trane", "next"}},
		{"only sentinel", []string{"trane"}, []string{"trane"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithProgramName(tt.tokens))
		})
	}
}

func TestWithProgramName_Idempotent(t *testing.T) {
	once := WithProgramName([]string{"score", "3"})
	twice := WithProgramName(once)
	assert.Equal(t, once, twice)
}

func TestWithProgramName_DoesNotAliasInput(t *testing.T) {
	in := []string{"trane", "next"}
	out := WithProgramName(in)
	out[1] = "quit"
	assert.Equal(t, "next", in[1])
}

func TestEscapeHashes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"search # x", `search \# x`},
		{`search \# x`, `search \# x`},
		{`search '#x'`, `search '#x'`},
		{`search "#x"`, `search "\#x"`},
		{`search "a\"#"`, `search "a\"\#"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeHashes(tt.in), "input %q", tt.in)
	}
}

func TestParse_NoOps(t *testing.T) {
	for _, line := range []string{"", "   ", "\t", "# a comment", "   # indented comment"} {
		cmd, err := Parse(line)
		assert.NoError(t, err, "line %q", line)
		assert.Nil(t, cmd, "line %q", line)
	}
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"next", Next{}},
		{"trane next", Next{}},
		{"current", Current{}},
		{"answer", Answer{}},
		{"quit", Quit{}},
		{"exit", Quit{}},
		{"mantra-count", MantraCount{}},
		{"open /tmp/lib", OpenLibrary{Path: "/tmp/lib"}},
		{`open "/tmp/my library"`, OpenLibrary{Path: "/tmp/my library"}},
		{"score 1", Score{Value: 1}},
		{"score 5", Score{Value: 5}},
		{"instructions course", Instructions{Scope: scheduler.ScopeCourse}},
		{"instructions lesson l1", Instructions{Scope: scheduler.ScopeLesson, UnitID: "l1"}},
		{"material course c1", Material{Scope: scheduler.ScopeCourse, UnitID: "c1"}},
		{"material lesson", Material{Scope: scheduler.ScopeLesson}},
		{"filter course c1 c2", FilterCourses{IDs: []string{"c1", "c2"}}},
		{"filter lesson l1", FilterLessons{IDs: []string{"l1"}}},
		{"filter review-list", FilterReviewList{}},
		{"filter set easy", FilterSetSaved{ID: "easy"}},
		{"filter list", FilterListSaved{}},
		{"filter clear", FilterClear{}},
		{"filter show", FilterShow{}},
		{"blacklist add x", Blacklist{Action: BlacklistAdd, UnitID: "x"}},
		{"blacklist remove x", Blacklist{Action: BlacklistRemove, UnitID: "x"}},
		{"blacklist show", Blacklist{Action: BlacklistShow}},
		{"blacklist lesson", Blacklist{Action: BlacklistLesson}},
		{"review-list add x", ReviewList{Action: ReviewListAdd, UnitID: "x"}},
		{"review-list show", ReviewList{Action: ReviewListShow}},
		{"list courses", List{Kind: scheduler.ListCourses}},
		{"list lessons c1", List{Kind: scheduler.ListLessons, UnitID: "c1"}},
		{"list dependents l1", List{Kind: scheduler.ListDependents, UnitID: "l1"}},
		{"list matching-courses", List{Kind: scheduler.ListMatchingCourses}},
		{"scores", Scores{}},
		{"scores e1", Scores{ExerciseID: "e1"}},
		{"scores e1 3", Scores{ExerciseID: "e1", Limit: 3}},
		{"search major scale", Search{Terms: []string{"major", "scale"}}},
		{`search "major scale"`, Search{Terms: []string{"major scale"}}},
		{"debug unit-info e1", UnitInfo{UnitID: "e1"}},
		{"debug unit-type e1", UnitType{UnitID: "e1"}},
		{"debug export-graph /tmp/graph.dot", ExportGraph{Path: "/tmp/graph.dot"}},
		{"search # sharp", Search{Terms: []string{"#", "sharp"}}},
		{"search C# scales", Search{Terms: []string{"C#", "scales"}}},
		{"search #sharp", Search{Terms: []string{"#sharp"}}},
		{`search "#sharp" '#flat'`, Search{Terms: []string{"#sharp", "#flat"}}},
		{`search \#sharp`, Search{Terms: []string{"#sharp"}}},
		{"open lib#1", OpenLibrary{Path: "lib#1"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_FilterMetadata(t *testing.T) {
	got, err := Parse("filter metadata --course-metadata key1:val1 --any")
	require.NoError(t, err)
	assert.Equal(t, FilterMetadata{
		Op:             scheduler.OpAny,
		CourseMetadata: []scheduler.KeyValue{{Key: "key1", Value: "val1"}},
	}, got)

	got, err = Parse("filter metadata -l genre:jazz,level:1 -l key:c")
	require.NoError(t, err)
	fm, ok := got.(FilterMetadata)
	require.True(t, ok)
	assert.Equal(t, scheduler.OpAll, fm.Op)
	assert.Empty(t, fm.CourseMetadata)
	assert.Equal(t, []scheduler.KeyValue{
		{Key: "genre", Value: "jazz"},
		{Key: "level", Value: "1"},
		{Key: "key", Value: "c"},
	}, fm.LessonMetadata)
}

func TestParse_FilterMetadataSpaceSeparated(t *testing.T) {
	got, err := Parse("filter metadata -c a:b c:d")
	require.NoError(t, err)
	assert.Equal(t, FilterMetadata{
		Op:             scheduler.OpAll,
		CourseMetadata: []scheduler.KeyValue{{Key: "a", Value: "b"}, {Key: "c", Value: "d"}},
	}, got)

	got, err = Parse("filter metadata -c a:b c:d -l e:f g:h,i:j --any -c k:l")
	require.NoError(t, err)
	assert.Equal(t, FilterMetadata{
		Op: scheduler.OpAny,
		CourseMetadata: []scheduler.KeyValue{
			{Key: "a", Value: "b"}, {Key: "c", Value: "d"}, {Key: "k", Value: "l"},
		},
		LessonMetadata: []scheduler.KeyValue{
			{Key: "e", Value: "f"}, {Key: "g", Value: "h"}, {Key: "i", Value: "j"},
		},
	}, got)
}

func TestParse_FilterMetadataErrors(t *testing.T) {
	for _, line := range []string{
		"filter metadata",
		"filter metadata a:b -c c:d",
		"filter metadata -c a:b c",
		"filter metadata -c a:b --all --any",
		"filter metadata -c novalue",
		"filter metadata -c a:b:c",
		"filter metadata -c :b",
	} {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.Nil(t, cmd)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "got %v", err)
		})
	}
}

func TestParse_ScoreRange(t *testing.T) {
	for _, line := range []string{"score 0", "score 6", "score -1", "score three", "score", "score 1 2"} {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.Nil(t, cmd)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.NotEmpty(t, pe.Msg)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"bogus",
		"filter",
		"filter bogus",
		"blacklist add",
		"list lessons",
		"next extra",
		"open",
		"search",
		"scores e1 zero",
		`open "unterminated`,
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.Nil(t, cmd)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "got %v", err)
		})
	}
}

func TestParse_UnknownCommandCarriesUsage(t *testing.T) {
	_, err := Parse("frobnicate")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Msg, "frobnicate")
	assert.Contains(t, pe.Usage, "Available Commands")
}

func TestParse_Help(t *testing.T) {
	tests := []struct {
		line  string
		topic string
	}{
		{"--help", ""},
		{"help", ""},
		{"score --help", "score"},
		{"filter metadata -h", "filter metadata"},
		{"help filter", "filter"},
		{"trane next --help", "next"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			h, ok := got.(Help)
			require.True(t, ok, "got %T", got)
			assert.Equal(t, tt.topic, h.Topic)
			assert.Contains(t, h.Text, "Usage:")
		})
	}
}

func TestParse_FreshTreePerLine(t *testing.T) {
	_, err := Parse("filter metadata -c a:b --any")
	require.NoError(t, err)

	got, err := Parse("filter metadata -c x:y")
	require.NoError(t, err)
	assert.Equal(t, scheduler.OpAll, got.(FilterMetadata).Op)
	assert.Equal(t, []scheduler.KeyValue{{Key: "x", Value: "y"}}, got.(FilterMetadata).CourseMetadata)
}

func TestCommandNames(t *testing.T) {
	assert.Equal(t, "filter metadata", FilterMetadata{}.Name())
	assert.Equal(t, "instructions lesson", Instructions{Scope: scheduler.ScopeLesson}.Name())
	assert.Equal(t, "blacklist add", Blacklist{Action: BlacklistAdd}.Name())
	assert.Equal(t, "list matching-lessons", List{Kind: scheduler.ListMatchingLessons}.Name())
	assert.Equal(t, "debug unit-type", UnitType{}.Name())
	assert.Equal(t, "debug export-graph", ExportGraph{}.Name())
}

package command

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

func scopeOf(s string) scheduler.Scope {
	if s == "course" {
		return scheduler.ScopeCourse
	}
	return scheduler.ScopeLesson
}

func newBlacklistCmd(out *Command) *cobra.Command {
	cmd := group("blacklist", "Subcommands to manipulate the unit blacklist")
	withID := func(action BlacklistAction, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(action) + " <unit-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = Blacklist{Action: action, UnitID: args[0]}
				return nil
			},
		}
	}
	bare := func(action BlacklistAction, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(action),
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				*out = Blacklist{Action: action}
				return nil
			},
		}
	}
	cmd.AddCommand(
		withID(BlacklistAdd, "Add the given unit to the blacklist"),
		bare(BlacklistCourse, "Add the current exercise's course to the blacklist"),
		bare(BlacklistExercise, "Add the current exercise to the blacklist"),
		bare(BlacklistLesson, "Add the current exercise's lesson to the blacklist"),
		withID(BlacklistRemove, "Remove the given unit from the blacklist"),
		bare(BlacklistShow, "Show the units currently in the blacklist"),
	)
	return cmd
}

func newReviewListCmd(out *Command) *cobra.Command {
	cmd := group("review-list", "Subcommands for manipulating the review list")
	withID := func(action ReviewListAction, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(action) + " <unit-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = ReviewList{Action: action, UnitID: args[0]}
				return nil
			},
		}
	}
	cmd.AddCommand(
		withID(ReviewListAdd, "Add the given unit to the review list"),
		withID(ReviewListRemove, "Remove the given unit from the review list"),
		&cobra.Command{
			Use:   string(ReviewListShow),
			Short: "Show all the units in the review list",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				*out = ReviewList{Action: ReviewListShow}
				return nil
			},
		},
	)
	return cmd
}

func newDebugCmd(out *Command) *cobra.Command {
	cmd := group("debug", "Subcommands for debugging purposes")
	withArg := func(use, short string, build func(string) Command) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = build(args[0])
				return nil
			},
		}
	}
	cmd.AddCommand(
		withArg("export-graph <path>", "Export the dependent graph as a DOT file to the given path",
			func(v string) Command { return ExportGraph{Path: v} }),
		withArg("unit-info <unit-id>", "Print information about the given unit",
			func(v string) Command { return UnitInfo{UnitID: v} }),
		withArg("unit-type <unit-id>", "Print the type of the unit with the given ID",
			func(v string) Command { return UnitType{UnitID: v} }),
	)
	return cmd
}

func newFilterCmd(out *Command) *cobra.Command {
	cmd := group("filter", "Subcommands for dealing with unit filters")

	var (
		matchAll, matchAny bool
		pairs              pairArgs
	)
	metadata := &cobra.Command{
		Use:   "metadata",
		Short: "Set the unit filter to only show exercises with the given metadata",
		Long: "Set the unit filter to only show exercises with the given metadata. " +
			"Pairs are written as key:value. A flag takes every pair that follows it, " +
			"so -c genre:jazz level:1 passes two course pairs.",
		Args: cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := pairs.assign(args); err != nil {
				return err
			}
			courseKV, err := parsePairs(pairs.course)
			if err != nil {
				return err
			}
			lessonKV, err := parsePairs(pairs.lesson)
			if err != nil {
				return err
			}
			op := scheduler.OpAll
			if matchAny {
				op = scheduler.OpAny
			}
			*out = FilterMetadata{Op: op, CourseMetadata: courseKV, LessonMetadata: lessonKV}
			return nil
		},
	}
	metadata.Flags().BoolVar(&matchAll, "all", false, "Include units which match all of the key-value pairs")
	metadata.Flags().BoolVar(&matchAny, "any", false, "Include units which match any of the key-value pairs")
	pairs.args = metadata.Flags().Args
	metadata.Flags().VarP(pairFlag{p: &pairs, target: &pairs.course}, "course-metadata", "c", "Key-value pairs (key:value) of course metadata to filter on")
	metadata.Flags().VarP(pairFlag{p: &pairs, target: &pairs.lesson}, "lesson-metadata", "l", "Key-value pairs (key:value) of lesson metadata to filter on")
	metadata.MarkFlagsMutuallyExclusive("all", "any")
	metadata.MarkFlagsOneRequired("course-metadata", "lesson-metadata")

	ids := func(use, short string, build func([]string) Command) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = build(append([]string(nil), args...))
				return nil
			},
		}
	}
	bare := func(use, short string, c Command) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				*out = c
				return nil
			},
		}
	}

	cmd.AddCommand(
		bare("clear", "Clear the unit filter if any has been set", FilterClear{}),
		ids("course <course-id>...", "Set the unit filter to only show exercises from the given courses",
			func(v []string) Command { return FilterCourses{IDs: v} }),
		ids("lesson <lesson-id>...", "Set the unit filter to only show exercises from the given lessons",
			func(v []string) Command { return FilterLessons{IDs: v} }),
		bare("list", "List the saved unit filters", FilterListSaved{}),
		metadata,
		bare("review-list", "Set the unit filter to only show exercises from the units in the review list", FilterReviewList{}),
		&cobra.Command{
			Use:   "set <filter-id>",
			Short: "Set the unit filter to the saved filter with the given ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = FilterSetSaved{ID: args[0]}
				return nil
			},
		},
		bare("show", "Show the current unit filter", FilterShow{}),
	)
	return cmd
}

// pairArgs collects the values of the metadata flags. Positional arguments
// belong to the flag given most recently before them.
type pairArgs struct {
	course, lesson []string

	marks []pairMark
	args  func() []string
}

// pairMark records that positional arguments from index at onward belong
// to target.
type pairMark struct {
	at     int
	target *[]string
}

// pairFlag is a pflag.Value appending comma-separated pairs to target.
type pairFlag struct {
	p      *pairArgs
	target *[]string
}

func (f pairFlag) String() string { return strings.Join(*f.target, ",") }
func (f pairFlag) Type() string   { return "key:value" }

func (f pairFlag) Set(v string) error {
	*f.target = append(*f.target, strings.Split(v, ",")...)
	f.p.marks = append(f.p.marks, pairMark{at: len(f.p.args()), target: f.target})
	return nil
}

func (p *pairArgs) assign(args []string) error {
	for i, a := range args {
		var target *[]string
		for _, m := range p.marks {
			if m.at <= i {
				target = m.target
			}
		}
		if target == nil {
			return usageError("unexpected argument %q: key:value pairs must follow -c or -l", a)
		}
		*target = append(*target, strings.Split(a, ",")...)
	}
	return nil
}

func parsePairs(raw []string) ([]scheduler.KeyValue, error) {
	var pairs []scheduler.KeyValue
	for _, s := range raw {
		kv, err := scheduler.ParseKeyValue(s)
		if err != nil {
			return nil, usageError("%v", err)
		}
		pairs = append(pairs, kv)
	}
	return pairs, nil
}

// newScopedCmd builds the instructions and material commands, which share
// the course/lesson subcommand shape.
func newScopedCmd(out *Command, use, what string, build func(scope, id string) Command) *cobra.Command {
	cmd := group(use, "Subcommands for showing course and lesson "+what)
	for _, scope := range []string{"course", "lesson"} {
		scope := scope
		cmd.AddCommand(&cobra.Command{
			Use:   scope + " [" + scope + "-id]",
			Short: "Show the " + what + " for the given " + scope + " (or the current " + scope + " if none is passed)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				id := ""
				if len(args) == 1 {
					id = args[0]
				}
				*out = build(scope, id)
				return nil
			},
		})
	}
	return cmd
}

func newListCmd(out *Command) *cobra.Command {
	cmd := group("list", "Subcommands for listing course, lesson, and exercise IDs")
	entries := []struct {
		kind  scheduler.ListKind
		arg   string
		short string
	}{
		{scheduler.ListCourses, "", "Show the IDs of all courses in the library"},
		{scheduler.ListDependencies, "unit-id", "Show the dependencies of the given unit"},
		{scheduler.ListDependents, "unit-id", "Show the dependents of the given unit"},
		{scheduler.ListExercises, "lesson-id", "Show the IDs of all exercises in the given lesson"},
		{scheduler.ListLessons, "course-id", "Show the IDs of all lessons in the given course"},
		{scheduler.ListMatchingCourses, "", "Show the IDs of all the courses which match the current filter"},
		{scheduler.ListMatchingLessons, "course-id", "Show the IDs of all the lessons in the given course which match the current filter"},
	}
	for _, e := range entries {
		e := e
		sub := &cobra.Command{Short: e.short}
		if e.arg == "" {
			sub.Use = string(e.kind)
			sub.Args = cobra.NoArgs
		} else {
			sub.Use = string(e.kind) + " <" + e.arg + ">"
			sub.Args = cobra.ExactArgs(1)
		}
		sub.RunE = func(_ *cobra.Command, args []string) error {
			l := List{Kind: e.kind}
			if len(args) == 1 {
				l.UnitID = args[0]
			}
			*out = l
			return nil
		}
		cmd.AddCommand(sub)
	}
	return cmd
}

func newScoreCmd(out *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "score <1-5>",
		Short: "Record the mastery score (1-5) for the current exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return usageError("invalid score %q: must be an integer between 1 and 5", args[0])
			}
			score, err := scheduler.ParseMasteryScore(v)
			if err != nil {
				return usageError("%v", err)
			}
			*out = Score{Value: score}
			return nil
		},
	}
}

func newScoresCmd(out *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "scores [exercise-id] [num-scores]",
		Short: "Show the most recent scores for the given exercise (or the current exercise)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			var s Scores
			if len(args) >= 1 {
				s.ExerciseID = args[0]
			}
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n <= 0 {
					return usageError("invalid number of scores %q: must be a positive integer", args[1])
				}
				s.Limit = n
			}
			*out = s
			return nil
		},
	}
}

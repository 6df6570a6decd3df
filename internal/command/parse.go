package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

// ProgramName is the sentinel argv[0] injected ahead of user input so the
// argument parser sees a conventional argument vector.
const ProgramName = "trane"

// ParseError describes input that does not form a valid command. It is
// always recoverable: the shell prints it and prompts again.
type ParseError struct {
	Msg   string
	Usage string
}

func (e *ParseError) Error() string { return e.Msg }

// usageError is returned from RunE functions for semantic argument errors
// such as an out-of-range score.
func usageError(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// Parse turns one line of user input into a Command. Blank lines and lines
// starting with '#' yield a nil Command and a nil error.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	tokens, err := shlex.Split(escapeHashes(line))
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("cannot split input: %v", err)}
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return ParseArgs(WithProgramName(tokens))
}

// escapeHashes escapes every '#' outside single quotes so the lexer reads
// it as a literal. Only a leading '#' starts a comment, and Parse has
// already handled that case.
func escapeHashes(line string) string {
	var (
		b                      strings.Builder
		single, double, escape bool
	)
	for _, r := range line {
		switch {
		case escape:
			escape = false
		case r == '\\' && !single:
			escape = true
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '#' && !single:
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WithProgramName returns tokens with ProgramName as the first element,
// leaving them unchanged (but copied) if the user already typed it.
func WithProgramName(tokens []string) []string {
	if len(tokens) > 0 && tokens[0] == ProgramName {
		return append([]string(nil), tokens...)
	}
	return append([]string{ProgramName}, tokens...)
}

// ParseArgs parses a full argument vector whose first element is the
// program name.
func ParseArgs(argv []string) (Command, error) {
	if len(argv) == 0 {
		return nil, &ParseError{Msg: "empty argument vector"}
	}

	var parsed Command
	root := newRootCmd(&parsed)
	root.SetArgs(argv[1:])

	cmd, err := root.ExecuteC()
	if err != nil {
		usage := ""
		if cmd != nil {
			usage = cmd.UsageString()
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			if pe.Usage == "" {
				pe.Usage = usage
			}
			return nil, pe
		}
		return nil, &ParseError{Msg: err.Error(), Usage: usage}
	}
	if parsed == nil {
		return nil, &ParseError{
			Msg:   fmt.Sprintf("unrecognized input %q", strings.Join(argv[1:], " ")),
			Usage: root.UsageString(),
		}
	}
	return parsed, nil
}

// helpTopic returns the command path of c without the program name.
func helpTopic(c *cobra.Command) string {
	return strings.TrimSpace(strings.TrimPrefix(c.CommandPath(), ProgramName))
}

func helpText(c *cobra.Command) string {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}
	if desc == "" {
		return c.UsageString()
	}
	return desc + "\n\n" + c.UsageString()
}

// newRootCmd builds a fresh command tree whose leaves store the parsed
// command into out. A new tree is built per line so flag state never leaks
// between inputs.
func newRootCmd(out *Command) *cobra.Command {
	root := &cobra.Command{
		Use:           ProgramName,
		Short:         "An automated practice system for learning complex skills",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		*out = Help{Topic: helpTopic(c), Text: helpText(c)}
	})

	set := func(c Command) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			*out = c
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "answer",
			Short: "Show the answer to the current exercise, if it exists",
			Args:  cobra.NoArgs,
			RunE:  set(Answer{}),
		},
		newBlacklistCmd(out),
		&cobra.Command{
			Use:   "current",
			Short: "Display the current exercise",
			Args:  cobra.NoArgs,
			RunE:  set(Current{}),
		},
		newDebugCmd(out),
		newFilterCmd(out),
		newScopedCmd(out, "instructions", "instructions", func(scope, id string) Command {
			return Instructions{Scope: scopeOf(scope), UnitID: id}
		}),
		newListCmd(out),
		&cobra.Command{
			Use:   "mantra-count",
			Short: "Show the number of mantras recited in the background during the current session",
			Long: "Trane \"recites\" Tara Sarasvati's mantra in the background as a symbolic way in " +
				"which users can contribute back to the project. This command shows the number " +
				"of mantras recited so far.",
			Args: cobra.NoArgs,
			RunE: set(MantraCount{}),
		},
		newScopedCmd(out, "material", "material", func(scope, id string) Command {
			return Material{Scope: scopeOf(scope), UnitID: id}
		}),
		&cobra.Command{
			Use:   "next",
			Short: "Submit the score for the current exercise and proceed to the next",
			Args:  cobra.NoArgs,
			RunE:  set(Next{}),
		},
		&cobra.Command{
			Use:   "open <library-path>",
			Short: "Open the course library at the given location",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = OpenLibrary{Path: args[0]}
				return nil
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Submit any staged score and exit",
			Args:    cobra.NoArgs,
			RunE:    set(Quit{}),
		},
		newReviewListCmd(out),
		newScoreCmd(out),
		newScoresCmd(out),
		&cobra.Command{
			Use:   "search <terms>...",
			Short: "Search for courses, lessons, and exercises",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				*out = Search{Terms: append([]string(nil), args...)}
				return nil
			},
		},
	)
	return root
}

// group returns a non-leaf command that rejects unknown or missing
// subcommands.
func group(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return usageError("%s: missing subcommand", c.CommandPath())
		},
	}
}

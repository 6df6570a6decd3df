// Package repl runs the interactive read-parse-dispatch-render loop.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/trane-project/trane-cli/internal/command"
	"github.com/trane-project/trane-cli/internal/logging"
	"github.com/trane-project/trane-cli/internal/render"
	"github.com/trane-project/trane-cli/internal/session"
)

// Prompt is printed before every line.
const Prompt = "trane >> "

// InterruptHint is printed when the user interrupts a line.
const InterruptHint = "Press CTRL-D or use the quit command to exit"

// FatalIOError reports that the terminal could not be read or written.
type FatalIOError struct {
	Op  string
	Err error
}

func (e *FatalIOError) Error() string {
	return fmt.Sprintf("terminal %s failed: %v", e.Op, e.Err)
}

func (e *FatalIOError) Unwrap() error {
	return e.Err
}

// Config holds the loop's collaborators. Logger is optional.
type Config struct {
	Reader     LineReader
	Out        io.Writer
	Dispatcher *session.Dispatcher
	Renderer   *render.Renderer
	Logger     *logging.Logger
}

type loopState int

const (
	prompting loopState = iota
	processing
	terminating
)

// Loop is the interactive shell. Commands run strictly one after another.
type Loop struct {
	cfg Config
	log *logging.Logger
}

// New creates a Loop.
func New(cfg Config) *Loop {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Loop{cfg: cfg, log: log.With("component", "repl")}
}

// Run reads lines until quit or end of input, then submits any staged
// score and closes the library. It returns nil on a clean exit and a
// *FatalIOError when the terminal fails.
func (l *Loop) Run(ctx context.Context) error {
	var line string
	for state := prompting; state != terminating; {
		switch state {
		case prompting:
			s, err := l.cfg.Reader.ReadLine(Prompt)
			switch {
			case errors.Is(err, io.EOF):
				l.log.Debug("end of input")
				state = terminating
			case errors.Is(err, ErrInterrupted):
				if err := l.write(InterruptHint + "\n"); err != nil {
					return l.abort(ctx, err)
				}
			case err != nil:
				return l.abort(ctx, &FatalIOError{Op: "read", Err: err})
			default:
				line = s
				state = processing
			}

		case processing:
			quit, err := l.process(ctx, line)
			if err != nil {
				return l.abort(ctx, err)
			}
			state = prompting
			if quit {
				state = terminating
			}
		}
	}
	return l.shutdown(ctx)
}

// process handles one line and reports whether the session should end.
func (l *Loop) process(ctx context.Context, line string) (bool, error) {
	cmd, err := command.Parse(line)
	if cmd == nil && err == nil {
		return false, nil
	}
	l.cfg.Reader.AddHistory(strings.TrimSpace(line))
	if err != nil {
		l.log.Debug("parse failed", "line", line, "error", err)
		return false, l.write(l.cfg.Renderer.Error(err))
	}

	res, err := l.cfg.Dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		return false, l.write(l.cfg.Renderer.Error(err))
	}
	if err := l.write(l.cfg.Renderer.Result(res)); err != nil {
		return false, err
	}
	_, quit := res.(session.Goodbye)
	return quit, nil
}

// shutdown flushes the staged score and prints the session summary. A
// failed flush is reported but does not change the exit status.
func (l *Loop) shutdown(ctx context.Context) error {
	if err := l.cfg.Dispatcher.Shutdown(ctx); err != nil {
		if err := l.write(l.cfg.Renderer.Error(err)); err != nil {
			return err
		}
	}
	return l.write(l.cfg.Renderer.Summary(l.cfg.Dispatcher.Summary()))
}

// abort shuts the session down after a terminal failure so that a staged
// score still reaches the library.
func (l *Loop) abort(ctx context.Context, err error) error {
	l.log.Error("terminal failure", "error", err)
	if shutdownErr := l.cfg.Dispatcher.Shutdown(ctx); shutdownErr != nil {
		l.log.Warn("shutdown after terminal failure", "error", shutdownErr)
	}
	return err
}

func (l *Loop) write(s string) error {
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(l.cfg.Out, s); err != nil {
		return &FatalIOError{Op: "write", Err: err}
	}
	return nil
}

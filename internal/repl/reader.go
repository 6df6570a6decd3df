package repl

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrInterrupted is returned by a LineReader when the user interrupts the
// line being typed.
var ErrInterrupted = errors.New("line interrupted")

// LineReader reads lines from the user. ReadLine returns io.EOF at end of
// input and ErrInterrupted when the current line was aborted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	AddHistory(line string)
	Close() error
}

// LinerReader is a LineReader backed by liner with a persistent history
// file.
type LinerReader struct {
	line        *liner.State
	historyPath string
	historySize int
}

// NewLinerReader takes over the terminal. History is loaded from
// historyPath when it is set and the file exists. A positive historySize
// caps the number of remembered lines.
func NewLinerReader(historyPath string, historySize int) (*LinerReader, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &LinerReader{line: line, historyPath: historyPath, historySize: historySize}
	if historyPath == "" {
		return r, nil
	}
	raw, err := os.ReadFile(historyPath)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		line.Close()
		return nil, fmt.Errorf("read history: %w", err)
	}
	if _, err := line.ReadHistory(strings.NewReader(lastLines(string(raw), historySize))); err != nil {
		line.Close()
		return nil, fmt.Errorf("read history: %w", err)
	}
	return r, nil
}

func (r *LinerReader) ReadLine(prompt string) (string, error) {
	s, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return s, err
}

func (r *LinerReader) AddHistory(line string) {
	r.line.AppendHistory(line)
}

// Close saves the history and restores the terminal.
func (r *LinerReader) Close() error {
	var saveErr error
	if r.historyPath != "" {
		saveErr = r.saveHistory()
	}
	if err := r.line.Close(); err != nil {
		return err
	}
	return saveErr
}

func (r *LinerReader) saveHistory() error {
	var buf bytes.Buffer
	if _, err := r.line.WriteHistory(&buf); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if err := os.WriteFile(r.historyPath, []byte(lastLines(buf.String(), r.historySize)), 0o600); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// lastLines keeps the final n lines of s. n <= 0 keeps everything.
func lastLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "")
}

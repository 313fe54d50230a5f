// Package source turns raw build output into a diagnostic collection, either
// from cargo's JSON message stream or from its human-formatted text.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/aezell/chex/internal/model"
)

// Mode selects the output shape requested from the build tool.
type Mode string

const (
	ModeJSON Mode = "json"
	ModeText Mode = "text"
)

// ParseMode validates a mode name. The empty string means ModeJSON.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeJSON:
		return ModeJSON, nil
	case ModeText:
		return ModeText, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected json|text)", s)
	}
}

// Detect guesses the mode of saved output from its first non-blank line.
func Detect(data []byte) Mode {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] == '{' {
			return ModeJSON
		}
		return ModeText
	}
	return ModeText
}

// Parse validates that data is text and parses it in the given mode.
func Parse(mode Mode, data []byte, keep Actionable) (*model.Collection, error) {
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}
	if mode == ModeText {
		if isCleanBuild(string(data)) {
			return model.NewCollection(nil), nil
		}
		return ParseText(string(data), keep), nil
	}
	return ParseStructured(bytes.NewReader(data), keep)
}

// isCleanBuild reports text output of a build that had nothing to check.
func isCleanBuild(output string) bool {
	return strings.HasPrefix(strings.TrimSpace(output), "Finished")
}

// CommandSpec describes one subprocess invocation.
type CommandSpec struct {
	Name string
	Args []string
	Dir  string
}

func (s CommandSpec) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Runner runs a command to completion. It returns the exit code, or -1 with
// a non-nil error when the command could not be started.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) (int, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, err
}

// Checker runs `cargo check` and parses its diagnostics.
type Checker struct {
	Cargo  string // binary, default "cargo"
	Dir    string // working directory, default current
	Mode   Mode
	Keep   Actionable // nil selects the mode default
	Runner Runner
	Log    *log.Logger
}

// Command returns the invocation the checker will run.
func (c *Checker) Command() CommandSpec {
	name := c.Cargo
	if name == "" {
		name = "cargo"
	}
	args := []string{"check", "--message-format=json"}
	if c.Mode == ModeText {
		args = []string{"check", "--color=never"}
	}
	return CommandSpec{Name: name, Args: args, Dir: c.Dir}
}

// Check runs the build tool once and returns its diagnostics. Cargo exits
// non-zero when it reports errors, so a failing exit status is only an
// invocation failure when no diagnostics came out of it.
func (c *Checker) Check(ctx context.Context) (*model.Collection, error) {
	spec := c.Command()
	runner := c.Runner
	if runner == nil {
		runner = OSRunner{}
	}

	c.logf("running %s in %s", spec, displayDir(spec.Dir))

	var stdout, stderr bytes.Buffer
	code, err := runner.Run(ctx, spec, &stdout, &stderr)
	if err != nil && code < 0 {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvocation, spec, err)
	}
	c.logf("%s exited with status %d", spec.Name, code)

	raw := stdout.Bytes()
	if c.Mode == ModeText {
		raw = stderr.Bytes()
	}

	coll, err := Parse(c.modeOrDefault(), raw, c.Keep)
	if err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", spec.Name, err)
	}

	if code != 0 && coll.Len() == 0 {
		return nil, &ExitError{Command: spec, Code: code, Stderr: lastLines(stderr.String(), 5)}
	}

	c.logf("collected %s", coll.Counts())
	return coll, nil
}

func (c *Checker) modeOrDefault() Mode {
	if c.Mode == "" {
		return ModeJSON
	}
	return c.Mode
}

func (c *Checker) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log.Printf(format, args...)
	}
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// lastLines returns the last n non-blank lines of s, joined by "; ".
func lastLines(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 0 {
		return "no output"
	}
	return strings.Join(lines, "; ")
}

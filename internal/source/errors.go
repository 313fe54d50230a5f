package source

import (
	"errors"
	"fmt"
)

// Failure kinds. Errors returned by this package wrap exactly one of these
// and can be matched with errors.Is.
var (
	// ErrInvocation means the build tool could not be started or exited
	// abnormally without producing diagnostics.
	ErrInvocation = errors.New("build tool invocation failed")

	// ErrEncoding means the build output is not valid UTF-8 text.
	ErrEncoding = errors.New("build output is not valid UTF-8")

	// ErrParse means a structured record could not be decoded.
	ErrParse = errors.New("malformed diagnostic record")
)

// ExitError is the invocation failure for a build that ran, exited non-zero
// and left nothing after filtering. It matches ErrInvocation.
type ExitError struct {
	Command CommandSpec
	Code    int
	Stderr  string // last lines of the tool's stderr
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v: %s exited with status %d: %s", ErrInvocation, e.Command, e.Code, e.Stderr)
}

func (e *ExitError) Unwrap() error { return ErrInvocation }

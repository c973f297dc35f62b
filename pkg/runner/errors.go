package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExecution matches every ExecutionError via errors.Is
var ErrExecution = errors.New("analysis execution failed")

// Kind classifies why an engine run failed
type Kind string

const (
	KindExitCode        Kind = "exit_code"
	KindEmptyOutput     Kind = "empty_output"
	KindIOFailure       Kind = "io_failure"
	KindInterrupted     Kind = "interrupted"
	KindMalformedOutput Kind = "malformed_output"
	KindEngineFailure   Kind = "engine_failure"
)

// ExecutionError failure of one engine invocation
type ExecutionError struct {
	Kind     Kind
	ExitCode int
	Stderr   string
	Message  string
	Err      error
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindExitCode:
		fmt.Fprintf(&b, "analysis failed with exit code: %d", e.ExitCode)
		if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
			fmt.Fprintf(&b, ". Error output: %s", stderr)
		}
	case KindEmptyOutput:
		b.WriteString("analysis engine produced no output")
	case KindEngineFailure:
		fmt.Fprintf(&b, "analysis engine reported failure: %s", e.Message)
	default:
		fmt.Fprintf(&b, "analysis %s", strings.ReplaceAll(string(e.Kind), "_", " "))
		if e.Message != "" {
			fmt.Fprintf(&b, ": %s", e.Message)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

func newExecutionError(kind Kind, message string, err error) *ExecutionError {
	return &ExecutionError{Kind: kind, Message: message, Err: err}
}

// AsExecutionError extracts an ExecutionError from err's chain
func AsExecutionError(err error) (*ExecutionError, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}

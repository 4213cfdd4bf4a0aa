package pyenv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured indicates `pyenv root` could not be resolved.
	ErrNotConfigured = errors.New("pyenv not configured")

	// ErrNotFound indicates the requested environment or file doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrExists indicates the target of a clone is already taken.
	ErrExists = errors.New("already exists")

	// ErrInvalidInput indicates a form field failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an external command exceeded its time budget.
	ErrTimeout = errors.New("command timed out")

	// ErrToolMissing indicates an executable could not be started.
	ErrToolMissing = errors.New("executable not found")

	// ErrOutputTruncated indicates a command printed more than Runner keeps.
	ErrOutputTruncated = errors.New("command output too large")
)

// NotFoundError names the missing environment or file.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return e.Name + " no encontrado" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ExistsError names the environment that is already present.
type ExistsError struct {
	Name string
}

func (e *ExistsError) Error() string { return e.Name + " ya existe" }

func (e *ExistsError) Is(target error) bool { return target == ErrExists }

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// CommandError is returned when an external command exits non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command '%s' returned non-zero exit status %d", e.Command, e.ExitCode)
}

// Message returns the text a caller should see: the captured stderr of the
// command, or the exit status summary when the command printed nothing.
func (e *CommandError) Message() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return e.Error()
}

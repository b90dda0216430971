// pkg/bump_err/errors.go
//
// Error classification with exit codes, plus the expected/user error marker
// used by the CLI layer to decide between a warning and a failure.

package bump_err

import (
	"errors"
	"fmt"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/process issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - configuration and input failures (exit 2)
	CategoryValidation
	// CategoryGit - git invocations and history parsing (exit 1)
	CategoryGit
	// CategoryInternal - bugs in whatbump itself (exit 3)
	CategoryInternal
)

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts an exit code from any error.
// Returns 0 for nil and for expected user errors, the category code for
// classified errors and 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

// NewValidationError creates an error for configuration or input failures
func NewValidationError(message string, cause error, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	})
}

// NewGitError creates an error for git invocation or history format failures
func NewGitError(message string, cause error, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category:    CategoryGit,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	})
}

// NewInternalError creates an error for internal bugs
func NewInternalError(message string, cause error) error {
	return cerr.WithStack(&ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Remediation: []string{
			"This is a bug in whatbump; please report it with the output of LOG_LEVEL=debug",
		},
	})
}

// IsCategory reports whether err carries a ClassifiedError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category == category
	}
	return false
}

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

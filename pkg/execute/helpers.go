// pkg/execute/helpers.go

package execute

import (
	"fmt"
	"strings"
	"time"
)

// Options describes one command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string
	// Env entries are appended to the current environment.
	Env []string
	// Timeout of zero means no limit beyond ctx.
	Timeout time.Duration
}

// Result holds the fully drained output streams.
type Result struct {
	Stdout string
	Stderr string
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	cause   error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.cause
}

func buildCommandString(command string, args ...string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

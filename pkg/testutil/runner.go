package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/execute"
)

// ScriptedRunner is an execute.Runner that replays canned results in order
// and records every invocation.
type ScriptedRunner struct {
	mu      sync.Mutex
	Steps   []ScriptedStep
	Calls   []execute.Options
	Default *ScriptedStep
}

// ScriptedStep is one canned response.
type ScriptedStep struct {
	Stdout string
	Stderr string
	Err    error
}

// Run implements execute.Runner.
func (r *ScriptedRunner) Run(_ context.Context, opts execute.Options) (*execute.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, opts)

	var step ScriptedStep
	switch {
	case len(r.Steps) > 0:
		step, r.Steps = r.Steps[0], r.Steps[1:]
	case r.Default != nil:
		step = *r.Default
	default:
		return &execute.Result{}, nil
	}
	return &execute.Result{Stdout: step.Stdout, Stderr: step.Stderr}, step.Err
}

// CallArgs returns the argument lists of recorded calls joined by spaces.
func (r *ScriptedRunner) CallArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, strings.Join(c.Args, " "))
	}
	return out
}

// LogRecord formats one commit the way the history query emits it.
func LogRecord(hash, decorations, message, delimiter string) string {
	head := hash + " "
	if decorations != "" {
		head += " (" + decorations + ")"
	}
	return head + "\n" + message + "\n\n" + delimiter + "\n"
}

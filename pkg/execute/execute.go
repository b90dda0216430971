// pkg/execute/execute.go

// Package execute runs external commands for the git layer.
// Output is captured into unbounded buffers and drained fully before Run
// returns. There are no retries and no implicit timeout: callers that need a
// bound cancel ctx or set Options.Timeout.
package execute

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Runner runs one external command.
type Runner interface {
	Run(ctx context.Context, opts Options) (*Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, opts Options) (*Result, error)

// Run calls f(ctx, opts).
func (f RunnerFunc) Run(ctx context.Context, opts Options) (*Result, error) {
	return f(ctx, opts)
}

// Default runs commands with os/exec.
var Default Runner = RunnerFunc(Run)

// Run executes a command with structured logging and proper error handling.
// A non-zero exit yields an *ExitError carrying the code and stderr; the
// partial Result is returned alongside it.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Command == "" {
		return nil, cerr.New("execute: empty command")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ctx, span := telemetry.Start(ctx, "execute.Run",
		attribute.String("command", opts.Command),
		attribute.String("args", telemetry.TruncateArgs(opts.Args)),
		attribute.String("dir", opts.Dir),
	)
	defer span.End()

	logger := otelzap.Ctx(ctx)
	cmdStr := buildCommandString(opts.Command, opts.Args...)
	logger.Debug("Starting execution", zap.String("command", cmdStr), zap.String("dir", opts.Dir))

	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		logger.Debug("Execution succeeded",
			zap.String("command", cmdStr),
			zap.Int("stdout_bytes", stdout.Len()))
		return res, nil
	}

	span.RecordError(err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warn("Execution cancelled", zap.String("command", cmdStr), zap.Error(ctxErr))
		return res, cerr.Wrapf(ctxErr, "%s cancelled", cmdStr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("Execution exited non-zero",
			zap.String("command", cmdStr),
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.String("summary", ExtractSummary(res.Stderr, 2)))
		return res, &ExitError{
			Command: cmdStr,
			Code:    exitErr.ExitCode(),
			Stderr:  res.Stderr,
			cause:   err,
		}
	}

	logger.Error("Execution failed", zap.String("command", cmdStr), zap.Error(err))
	return res, cerr.Wrapf(err, "failed to start %s", opts.Command)
}

// ExtractSummary extracts a concise error summary from full output.
func ExtractSummary(output string, maxCandidates int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "No output provided."
	}

	lines := strings.Split(trimmed, "\n")
	var candidates []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") ||
			strings.Contains(lower, "fatal") ||
			strings.Contains(lower, "failed") ||
			strings.Contains(lower, "cannot") {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) > 0 {
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return strings.Join(candidates, " - ")
	}
	return strings.TrimSpace(lines[0])
}

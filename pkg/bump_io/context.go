// pkg/bump_io/context.go

package bump_io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type RuntimeContext struct {
	Ctx       context.Context
	Log       *zap.Logger
	Span      trace.Span
	Timestamp time.Time
	Command   string
	RunID     string
}

// NewContext starts the command span and a logger carrying the run and
// trace identifiers.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	runID := uuid.NewString()
	ctx, span := telemetry.Start(parent, cmdName,
		attribute.String("run_id", runID),
		attribute.String("version", Version))

	base := logger.L()
	if base == nil {
		base = zap.L()
	}
	log := base.With(
		zap.String("command", cmdName),
		zap.String("run_id", runID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return &RuntimeContext{
		Ctx:       ctx,
		Log:       log,
		Span:      span,
		Timestamp: time.Now(),
		Command:   cmdName,
		RunID:     runID,
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, annotates the span and flushes the logger.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)

	switch {
	case err == nil:
		rc.Log.Debug("Command completed", zap.Duration("duration", duration))
	case bump_err.IsExpectedUserError(err):
		rc.Log.Warn("Command stopped", zap.Duration("duration", duration), zap.Error(err))
	default:
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
	}

	rc.Span.SetAttributes(
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("args", telemetry.TruncateArgs(os.Args[1:])),
		attribute.String("error_type", classifyError(err)),
	)
	if err != nil {
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, firstLine(err.Error()))
	}

	// stderr refuses fsync when it is a pipe or terminal
	_ = logger.Sync()
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case bump_err.IsExpectedUserError(err):
		return "user"
	case bump_err.IsCategory(err, bump_err.CategoryValidation):
		return "validation"
	case bump_err.IsCategory(err, bump_err.CategoryGit):
		return "git"
	default:
		return "system"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartWithoutInitIsNoop(t *testing.T) {
	ctx, span := Start(context.Background(), "noop", attribute.String("k", "v"))
	defer span.End()
	require.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
}

func TestInitWritesSpansToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans", "telemetry.jsonl")
	t.Setenv(FileEnv, path)

	require.NoError(t, Init("whatbump-test"))
	_, span := Start(context.Background(), "recorded")
	span.End()
	require.NoError(t, Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recorded")

	// leave the package tracing disabled for other tests
	t.Setenv(FileEnv, "")
	require.NoError(t, Init("whatbump-test"))
}

func TestTruncateArgs(t *testing.T) {
	assert.Equal(t, "log -n 10", TruncateArgs([]string{"log", "-n", "10"}))

	long := TruncateArgs([]string{strings.Repeat("x", 300)})
	assert.Len(t, long, 259)
	assert.True(t, strings.HasSuffix(long, "..."))
}

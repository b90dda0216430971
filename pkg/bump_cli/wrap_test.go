package bump_cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_io"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newCmd(fn RunFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "probe", RunE: Wrap(fn), SilenceUsage: true, SilenceErrors: true}
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func TestWrapPassesContext(t *testing.T) {
	logger.SetLogger(logger.NewConsoleLogger(&bytes.Buffer{}, zapcore.DebugLevel))

	type key struct{}
	var seen *bump_io.RuntimeContext
	cmd := newCmd(func(rc *bump_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		seen = rc
		return nil
	})
	require.NoError(t, cmd.ExecuteContext(context.WithValue(context.Background(), key{}, "v")))

	require.NotNil(t, seen)
	assert.Equal(t, "probe", seen.Command)
	assert.Equal(t, "v", seen.Ctx.Value(key{}), "cobra's context is the parent")
	assert.NotEmpty(t, seen.RunID)
}

func TestWrapRecoversPanics(t *testing.T) {
	logger.SetLogger(logger.NewConsoleLogger(&bytes.Buffer{}, zapcore.DebugLevel))

	cmd := newCmd(func(*bump_io.RuntimeContext, *cobra.Command, []string) error {
		panic("kaboom")
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestWrapKeepsErrorClassification(t *testing.T) {
	logger.SetLogger(logger.NewConsoleLogger(&bytes.Buffer{}, zapcore.DebugLevel))

	expected := bump_err.NewExpectedError(errors.New("no repository here"))
	err := newCmd(func(*bump_io.RuntimeContext, *cobra.Command, []string) error { return expected }).Execute()
	assert.Same(t, expected, err)
	assert.Equal(t, 0, bump_err.GetExitCode(err))

	invalid := bump_err.NewValidationError("bad config", nil)
	err = newCmd(func(*bump_io.RuntimeContext, *cobra.Command, []string) error { return invalid }).Execute()
	assert.ErrorIs(t, err, invalid)
	assert.Equal(t, 2, bump_err.GetExitCode(err))
}

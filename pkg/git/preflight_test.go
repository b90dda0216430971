package git

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := LookPath
	LookPath = fn
	t.Cleanup(func() { LookPath = orig })
}

func TestCheckInstalled(t *testing.T) {
	ctx := context.Background()

	t.Run("missing binary", func(t *testing.T) {
		stubLookPath(t, func(string) (string, error) { return "", exec.ErrNotFound })
		runner := &testutil.ScriptedRunner{}

		_, err := CheckInstalled(ctx, runner)
		require.Error(t, err)
		assert.True(t, bump_err.IsCategory(err, bump_err.CategoryValidation))
		assert.Contains(t, err.Error(), "How to fix:")
		assert.Empty(t, runner.Calls)
	})

	t.Run("broken binary", func(t *testing.T) {
		stubLookPath(t, func(string) (string, error) { return "/usr/bin/git", nil })
		boom := errors.New("permission denied")
		runner := &testutil.ScriptedRunner{Steps: []testutil.ScriptedStep{{Err: boom}}}

		_, err := CheckInstalled(ctx, runner)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "/usr/bin/git")
	})

	t.Run("installed", func(t *testing.T) {
		stubLookPath(t, func(string) (string, error) { return "/usr/bin/git", nil })
		runner := &testutil.ScriptedRunner{Steps: []testutil.ScriptedStep{{Stdout: "git version 2.43.0\n"}}}

		version, err := CheckInstalled(ctx, runner)
		require.NoError(t, err)
		assert.Equal(t, "git version 2.43.0", version)
		assert.Equal(t, []string{"--version"}, runner.CallArgs())
	})
}

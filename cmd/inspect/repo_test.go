package inspect

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRepoCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := NewInspectCmd()
	cmd.SetArgs(append([]string{"repo"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectRepo(t *testing.T) {
	testutil.RequireGit(t)
	repo := testutil.NewRepo(t)

	t.Run("unborn", func(t *testing.T) {
		out, err := runRepoCmd(t, "--path", repo.Dir, "-o", "json")
		require.NoError(t, err)

		var info RepoInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.True(t, info.Unborn)
		assert.Empty(t, info.Branch)
		assert.Empty(t, info.Head)
		assert.Contains(t, info.Git, "git version")
	})

	head := repo.Commit("initial commit")
	repo.Branch("release", head)

	t.Run("branches", func(t *testing.T) {
		out, err := runRepoCmd(t, "--path", repo.Dir, "--branch", "release", "--branch", "missing", "-o", "json")
		require.NoError(t, err)

		var info RepoInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.False(t, info.Unborn)
		assert.Equal(t, "master", info.Branch)
		assert.True(t, strings.HasPrefix(head.String(), info.Head))
		assert.Equal(t, map[string]bool{"release": true, "missing": false}, info.Branches)

		want, err := filepath.EvalSymlinks(repo.Dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(info.Root)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("text", func(t *testing.T) {
		out, err := runRepoCmd(t, "--path", repo.Dir, "--branch", "release")
		require.NoError(t, err)
		assert.Contains(t, out, "FIELD")
		assert.Contains(t, out, "master")
		assert.Contains(t, out, "branch release exists")
	})
}

package recommend

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := NewRecommendCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	testutil.RequireGit(t)

	repo := testutil.NewRepo(t)
	repo.Tag("v1.0.0", repo.Commit("initial commit"))
	repo.Tag("v2.0.0", repo.Commit("feat!: some work"))
	repo.Commit("fix(three): oops")
	repo.Commit("feat: more features\n\nsome body text")

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "--path", repo.Dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Recommended bump: minor")
		assert.Contains(t, out, "Since tag: v2.0.0")
		assert.Contains(t, out, "more features")
	})

	t.Run("json with current version", func(t *testing.T) {
		out, err := run(t, "--path", repo.Dir, "--current-version", "1.0.0", "-o", "json")
		require.NoError(t, err)

		var got struct {
			ReleaseType string            `json:"releaseType"`
			Commits     []json.RawMessage `json:"commits"`
			StoppedAt   string            `json:"stoppedAt"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "major", got.ReleaseType)
		assert.Len(t, got.Commits, 3)
		assert.Equal(t, "v1.0.0", got.StoppedAt)
	})

	t.Run("config file in the repository", func(t *testing.T) {
		testutil.CreateTestFile(t, repo.Dir, ".whatbump.yaml", "output: yaml\ntypes:\n  feat: patch\n", 0o644)
		out, err := run(t, "--path", repo.Dir)
		require.NoError(t, err)
		assert.Contains(t, out, "releaseType: patch")
	})
}

func TestRecommendRejectsBadTypes(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "--type", "feat=major")
	require.Error(t, err)
	assert.Equal(t, 2, bump_err.GetExitCode(err))
}

func TestRecommendOutsideRepository(t *testing.T) {
	testutil.RequireGit(t)
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := run(t, "--path", dir)
	require.Error(t, err)
	assert.True(t, bump_err.IsCategory(err, bump_err.CategoryGit))
	assert.True(t, bump_err.IsExpectedUserError(err))
}

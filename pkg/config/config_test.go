package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, dir string, args ...string) *Config {
	t.Helper()
	cmd := &cobra.Command{Use: "probe"}
	cli.AddStringFlag(cmd, "current-version", "", "", "", false)
	cli.AddIntFlag(cmd, "page-size", "", 10, "")
	cli.AddStringToStringFlag(cmd, "type", KeyTypes, "")
	require.NoError(t, cmd.ParseFlags(args))

	v := viper.New()
	require.NoError(t, cli.BindFlagsToViper(cmd, v))
	cfg, err := Load(v, LoadOptions{Dir: dir, SkipHome: true})
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := load(t, dir)

	assert.Equal(t, dir, cfg.Path)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Nil(t, cfg.Types, "no types means the default policy")
	assert.Empty(t, cfg.File)
	require.NoError(t, Validate(cfg))
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, dir, ".whatbump.yaml", `
tag_prefix: release-
page_size: 30
current_version: 1.0.0
output: json
types:
  fix: patch
  perf: minor
`, 0o644)

	t.Run("file", func(t *testing.T) {
		cfg := load(t, dir)
		assert.Equal(t, "release-", cfg.TagPrefix)
		assert.Equal(t, 30, cfg.PageSize)
		assert.Equal(t, "1.0.0", cfg.CurrentVersion)
		assert.Equal(t, OutputJSON, cfg.Output)
		assert.Equal(t, map[string]string{"fix": "patch", "perf": "minor"}, cfg.Types)
		assert.Equal(t, filepath.Join(dir, ".whatbump.yaml"), cfg.File)
	})

	t.Run("environment beats file", func(t *testing.T) {
		t.Setenv("WHATBUMP_PAGE_SIZE", "5")
		t.Setenv("WHATBUMP_TYPES", "feat=minor, docs=patch")
		cfg := load(t, dir)
		assert.Equal(t, 5, cfg.PageSize)
		assert.Equal(t, map[string]string{"feat": "minor", "docs": "patch"}, cfg.Types)
	})

	t.Run("flags beat environment", func(t *testing.T) {
		t.Setenv("WHATBUMP_PAGE_SIZE", "5")
		cfg := load(t, dir, "--page-size", "50", "--current-version", "2.0.0", "--type", "feat=patch")
		assert.Equal(t, 50, cfg.PageSize)
		assert.Equal(t, "2.0.0", cfg.CurrentVersion)
		assert.Equal(t, map[string]string{"feat": "patch"}, cfg.Types)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, dir, ".env", "WHATBUMP_CURRENT_VERSION=3.1.4\n", 0o644)
	t.Cleanup(func() { os.Unsetenv("WHATBUMP_CURRENT_VERSION") })

	cfg := load(t, dir)
	assert.Equal(t, "3.1.4", cfg.CurrentVersion)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateTestFile(t, dir, "custom.yaml", "output: yaml\n", 0o644)

	cfg, err := Load(viper.New(), LoadOptions{Dir: dir, File: path})
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Output)

	_, err = Load(viper.New(), LoadOptions{Dir: dir, File: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
	assert.True(t, bump_err.IsCategory(err, bump_err.CategoryValidation))
}

func TestLoadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, dir, ".whatbump.yaml", "types: [unclosed\n", 0o644)

	_, err := Load(viper.New(), LoadOptions{Dir: dir, SkipHome: true})
	require.Error(t, err)
	assert.Equal(t, 2, bump_err.GetExitCode(err))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Path: "/repo", TagPrefix: "v", PageSize: 10, Output: OutputText}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad_type_level", mutate: func(c *Config) { c.Types = map[string]string{"feat": "major"} }, want: []string{"Types[feat]", "major"}},
		{name: "negative_page_size", mutate: func(c *Config) { c.PageSize = -1 }, want: []string{"PageSize", ">= 0"}},
		{name: "bad_output", mutate: func(c *Config) { c.Output = "xml" }, want: []string{"Output", "xml"}},
		{name: "prefixed_version", mutate: func(c *Config) { c.CurrentVersion = "v1.0.0" }, want: []string{"CurrentVersion"}},
		{name: "multiline_delimiter", mutate: func(c *Config) { c.Delimiter = "--\n--" }, want: []string{"Delimiter"}},
		{
			name: "all_reported",
			mutate: func(c *Config) {
				c.Output = "xml"
				c.PageSize = -3
			},
			want: []string{"Output", "PageSize"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if len(tt.want) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, bump_err.IsCategory(err, bump_err.CategoryValidation))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestParseTypes(t *testing.T) {
	got, err := ParseTypes(" fix=patch ,feat=minor")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fix": "patch", "feat": "minor"}, got)

	got, err = ParseTypes("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseTypes("fix,=minor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"fix"`)
	assert.Contains(t, err.Error(), `"=minor"`)
}

func TestToOptions(t *testing.T) {
	cfg := &Config{
		Path:           "/repo/sub",
		GitRoot:        "/repo",
		CurrentVersion: "1.2.3",
		TagPrefix:      "rel-",
		PageSize:       7,
		Delimiter:      "=====",
		Types:          map[string]string{"feat": "minor"},
	}
	opts := cfg.ToOptions()
	assert.Equal(t, "/repo/sub", opts.Path)
	assert.Equal(t, "/repo", opts.GitRoot)
	assert.Equal(t, "1.2.3", opts.CurrentVersion)
	assert.Equal(t, "rel-", opts.TagPrefix)
	assert.Equal(t, 7, opts.PageSize)
	assert.Equal(t, "=====", opts.Delimiter)
	assert.Equal(t, map[string]string{"feat": "minor"}, opts.Types)
}

// cmd/inspect/repo.go

package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_io"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/config"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/git"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/output"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RepoInfo is what `inspect repo` reports.
type RepoInfo struct {
	Path     string          `json:"path" yaml:"path"`
	Root     string          `json:"root" yaml:"root"`
	Branch   string          `json:"branch,omitempty" yaml:"branch,omitempty"`
	Head     string          `json:"head,omitempty" yaml:"head,omitempty"`
	Unborn   bool            `json:"unborn,omitempty" yaml:"unborn,omitempty"`
	Branches map[string]bool `json:"branches,omitempty" yaml:"branches,omitempty"`
	Config   string          `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Git      string          `json:"gitVersion" yaml:"gitVersion"`
}

// NewRepoCmd returns `whatbump inspect repo`.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Show the repository root, current branch and whether branches exist",
		Example: `  whatbump inspect repo
  whatbump inspect repo --branch main --branch release -o json`,
		Args: cobra.NoArgs,
		RunE: bump_cli.Wrap(runRepo),
	}
	cli.AddStringFlag(cmd, config.FlagPath, "C", "", "directory inside the repository (default: current directory)", false)
	cmd.Flags().StringSlice("branch", nil, "branch to check for, repeatable")
	cli.AddStringFlag(cmd, "output", "o", config.OutputText, "output format: text, json or yaml", false)
	return cmd
}

func runRepo(rc *bump_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	branches, err := cmd.Flags().GetStringSlice("branch")
	if err != nil {
		return cerr.Wrap(err, "read --branch")
	}

	info, err := Inspect(rc, cfg.Path, branches)
	if err != nil {
		return err
	}
	info.Config = cfg.File

	return output.Write(cmd.OutOrStdout(), cfg.Output, info, func(w io.Writer, st output.Styles) error {
		return repoText(w, info, st)
	})
}

// Inspect collects RepoInfo for the repository containing path.
func Inspect(rc *bump_io.RuntimeContext, path string, branches []string) (*RepoInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "failed to resolve path %s", path)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, cerr.Wrapf(err, "cannot inspect %s", abs)
	}

	version, err := git.CheckInstalled(rc.Ctx, nil)
	if err != nil {
		return nil, err
	}
	root, err := git.Root(rc.Ctx, nil, abs)
	if err != nil {
		return nil, err
	}
	branch, err := git.CurrentBranch(rc.Ctx, nil, root)
	if err != nil {
		return nil, err
	}
	head, err := git.HeadCommit(rc.Ctx, nil, root)
	if err != nil {
		return nil, err
	}

	info := &RepoInfo{Path: abs, Root: root, Branch: branch, Head: head, Unborn: head == "", Git: version}
	if len(branches) > 0 {
		info.Branches = make(map[string]bool, len(branches))
	}
	for _, b := range branches {
		ok, err := git.BranchExists(rc.Ctx, nil, root, b)
		if err != nil {
			return nil, err
		}
		info.Branches[b] = ok
	}

	rc.Log.Debug("Repository inspected",
		zap.String("root", root),
		zap.String("branch", branch),
		zap.Int("branches_checked", len(branches)))
	return info, nil
}

func repoText(w io.Writer, info *RepoInfo, st output.Styles) error {
	branch := info.Branch
	if info.Unborn {
		branch = st.Muted.Render("(no commits yet)")
	}

	table := output.NewTable().WithHeaders("FIELD", "VALUE").WithHeaderStyle(st.Header.Render)
	table.AddRow("root", info.Root)
	table.AddRow("path", info.Path)
	table.AddRow("branch", branch)
	if info.Head != "" {
		table.AddRow("head", info.Head)
	}
	table.AddRow("git", info.Git)
	if info.Config != "" {
		table.AddRow("config", info.Config)
	}
	for _, name := range sortedKeys(info.Branches) {
		table.AddRow(fmt.Sprintf("branch %s exists", name), strconv.FormatBool(info.Branches[name]))
	}
	return table.Render(w)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

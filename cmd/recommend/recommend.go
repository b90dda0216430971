// cmd/recommend/recommend.go

package recommend

import (
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_io"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/config"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/git"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRecommendCmd returns `whatbump recommend`.
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend major, minor or patch for the next release",
		Long: `Walks history newest-first from HEAD and stops at the first commit carrying
a release tag (or the tag matching --current-version). Commits after that tag
are classified as Conventional Commits:

  - any breaking change (type! or a BREAKING CHANGE footer) means major
  - otherwise any type mapped to minor means minor
  - otherwise patch

When --path is a subdirectory of the repository only commits touching it count.`,
		Example: `  whatbump recommend
  whatbump recommend --path services/api --output json
  whatbump recommend --current-version 1.4.0 --type perf=minor --type fix=patch`,
		Args: cobra.NoArgs,
		RunE: bump_cli.Wrap(runRecommend),
	}

	cli.AddStringFlag(cmd, config.FlagPath, "C", "", "directory to inspect (default: current directory)", false)
	cli.AddStringFlag(cmd, "git-root", "", "", "repository root (default: resolved with git)", false)
	cli.AddStringFlag(cmd, "current-version", "", "", "stop only at the tag for this version, e.g. 1.4.0", false)
	cli.AddStringFlag(cmd, "tag-prefix", "", bump.DefaultTagPrefix, "prefix stripped from tags before version checks", false)
	cli.AddIntFlag(cmd, "page-size", "", git.DefaultPageSize, "commits read per git log call")
	cli.AddStringFlag(cmd, "delimiter", "", "", "record separator for git log output", false)
	cli.AddStringToStringFlag(cmd, "type", config.KeyTypes, "commit type to bump level, repeatable (default fix=patch,feat=minor)")
	cli.AddStringFlag(cmd, "output", "o", config.OutputText, "output format: text, json or yaml", false)
	return cmd
}

func runRecommend(rc *bump_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	rc.Log.Debug("Configuration loaded",
		zap.String("path", cfg.Path),
		zap.String("config_file", cfg.File),
		zap.String("current_version", cfg.CurrentVersion),
		zap.Int("page_size", cfg.PageSize))

	if _, err := git.CheckInstalled(rc.Ctx, nil); err != nil {
		return err
	}

	dec, err := bump.Recommend(rc.Ctx, cfg.ToOptions())
	if err != nil {
		return err
	}
	return output.Decision(cmd.OutOrStdout(), cfg.Output, dec)
}

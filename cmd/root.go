/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/whatbump/cmd/inspect"
	"github.com/CodeMonkeyCybersecurity/whatbump/cmd/recommend"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_io"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/config"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the whatbump command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "whatbump",
		Short: "Recommend the next semantic version bump from git history",
		Long: `whatbump reads commit history back to the last release tag, classifies each
commit as a Conventional Commit and recommends a major, minor or patch bump.

Settings come from flags, WHATBUMP_* environment variables (a local .env is
loaded first) and .whatbump.yaml in the inspected directory or $HOME.`,
		Version:       bump_io.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil || level == "" {
				return nil
			}
			logger.SetLevel(logger.ParseLogLevel(level))
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "", "log level on stderr (debug, info, warn, error); overrides "+logger.LevelEnv)
	root.PersistentFlags().String(config.FlagConfig, "", "config file (default .whatbump.yaml in --path, then $HOME)")

	root.AddCommand(recommend.NewRecommendCmd(), inspect.NewInspectCmd())
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	defer func() {
		// stderr refuses fsync when it is a pipe or terminal
		_ = logger.Sync()
	}()

	err := NewRootCmd().Execute()
	if err == nil {
		return 0
	}

	code := bump_err.GetExitCode(err)
	if bump_err.IsExpectedUserError(err) {
		logger.L().Warn("CLI completed with user error", zap.Error(err))
	} else {
		logger.L().Debug("CLI execution error", zap.Error(err), zap.Int("exit_code", code))
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return code
}

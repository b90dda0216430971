// pkg/bump_cli/wrap.go

package bump_cli

import (
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_io"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/logger"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc is a command body receiving the per-run context.
type RunFunc func(rc *bump_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap ensures panic recovery, telemetry and logging around a command body.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.GetLogger()

		rc := bump_io.NewContext(cmd.Context(), cmd.CommandPath())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		rc.Log.Debug("Command started",
			zap.String("command", cmd.CommandPath()),
			zap.Strings("args", args))

		err = fn(rc, cmd, args)
		if err != nil && !bump_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}

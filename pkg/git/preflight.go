// pkg/git/preflight.go
//
// Preflight checks run before any history is read, so a missing git binary
// is reported with install instructions instead of an exec failure.

package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/execute"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// LookPath resolves the git binary. Tests replace it.
var LookPath = exec.LookPath

// CheckInstalled verifies git is on PATH and runs, returning its version
// string, e.g. "git version 2.43.0".
func CheckInstalled(ctx context.Context, runner execute.Runner) (string, error) {
	logger := otelzap.Ctx(ctx)

	gitPath, err := LookPath(Binary)
	if err != nil {
		return "", bump_err.NewValidationError("git is not installed or not in PATH", err,
			"Ubuntu/Debian: sudo apt-get install git",
			"macOS: brew install git",
			"Or visit https://git-scm.com/downloads, then verify with: git --version")
	}

	res, err := run(ctx, runner, "", "--version")
	if err != nil {
		return "", cerr.Wrapf(err, "git is installed at %s but failed to execute", gitPath)
	}

	version := strings.TrimSpace(res.Stdout)
	logger.Debug("Git is installed",
		zap.String("path", gitPath),
		zap.String("version", version))
	return version, nil
}

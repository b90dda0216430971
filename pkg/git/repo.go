// Package git reads repository state and commit history by shelling out to
// the git binary through execute.Runner.
package git

import (
	"context"
	"errors"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Binary is the git executable invoked by this package.
const Binary = "git"

// Env pins git's messages to the C locale; several results are decided by
// matching stderr text.
var Env = []string{"LC_ALL=C"}

func run(ctx context.Context, runner execute.Runner, dir string, args ...string) (*execute.Result, error) {
	if runner == nil {
		runner = execute.Default
	}
	return runner.Run(ctx, execute.Options{
		Command: Binary,
		Args:    args,
		Dir:     dir,
		Env:     Env,
	})
}

// Root resolves the top-level directory of the repository containing dir.
// A dir outside any working tree is an expected user error.
func Root(ctx context.Context, runner execute.Runner, dir string) (string, error) {
	res, err := run(ctx, runner, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		gitErr := bump_err.NewGitError("failed to resolve repository root", err,
			"run whatbump from inside a git working tree, or pass --git-root")
		var exitErr *execute.ExitError
		if errors.As(err, &exitErr) && strings.Contains(exitErr.Stderr, "not a git repository") {
			return "", bump_err.NewExpectedError(gitErr)
		}
		return "", gitErr
	}

	root := strings.TrimSpace(res.Stdout)
	otelzap.Ctx(ctx).Debug("Repository root resolved", zap.String("dir", dir), zap.String("root", root))
	return root, nil
}

// CurrentBranch returns the abbreviated name of HEAD. A repository without
// any commits has no current branch; that case returns "" and no error.
func CurrentBranch(ctx context.Context, runner execute.Runner, dir string) (string, error) {
	res, err := run(ctx, runner, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		var exitErr *execute.ExitError
		if errors.As(err, &exitErr) && strings.Contains(exitErr.Stderr, "ambiguous argument 'HEAD'") {
			otelzap.Ctx(ctx).Debug("Repository has no commits yet", zap.String("dir", dir))
			return "", nil
		}
		return "", bump_err.NewGitError("failed to resolve current branch", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// BranchExists reports whether refs/heads/<branch> exists.
// git show-ref exits 1 for a missing ref; any other failure is returned.
func BranchExists(ctx context.Context, runner execute.Runner, dir, branch string) (bool, error) {
	_, err := run(ctx, runner, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}

	var exitErr *execute.ExitError
	if errors.As(err, &exitErr) && exitErr.Code == 1 {
		return false, nil
	}
	return false, bump_err.NewGitError("failed to check branch "+branch, err)
}

// HeadCommit returns the abbreviated hash of HEAD, or "" on an unborn
// repository.
func HeadCommit(ctx context.Context, runner execute.Runner, dir string) (string, error) {
	res, err := run(ctx, runner, dir, "rev-parse", "--verify", "--quiet", "--short", "HEAD")
	if err != nil {
		// --quiet turns an unresolvable HEAD into a silent exit 1
		var exitErr *execute.ExitError
		if errors.As(err, &exitErr) && exitErr.Code == 1 {
			return "", nil
		}
		return "", bump_err.NewGitError("failed to resolve HEAD", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// pkg/git/history.go
//
// Paginated, newest-first commit history. Each page is one `git log`
// invocation; records are split on a delimiter that real commit messages are
// not expected to contain.

package git

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/execute"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the number of commits requested per git log call.
	DefaultPageSize = 10
	// DefaultDelimiter separates records in git log output (40 characters).
	DefaultDelimiter = "------------------ >8 ------------------"
)

var (
	recordPattern = regexp.MustCompile(`(?s)^([0-9a-fA-F]{5,40})[ \t]*(?:\(([^\n]*)\))?[ \t]*\n(.*)$`)
	tagPattern    = regexp.MustCompile(`^tag:\s*([^,)]+)`)
)

// Commit is one raw history record.
type Commit struct {
	Hash    string   `json:"hash" yaml:"hash"`
	Tags    []string `json:"tags" yaml:"tags"`
	Message string   `json:"message" yaml:"message"`
}

// MalformedRecordError is returned when a log segment does not have the
// `<hash> [(<decorations>)]\n<message>` shape. It is never skipped.
type MalformedRecordError struct {
	Text string
}

func (e *MalformedRecordError) Error() string {
	text := e.Text
	if len(text) > 80 {
		text = text[:80] + "..."
	}
	return fmt.Sprintf("malformed git log record: %q", text)
}

// HistoryOptions configures a History.
type HistoryOptions struct {
	// Dir is the directory git log runs in, normally the repository root.
	Dir string
	// Subpath restricts history to commits touching it. Empty, or equal to
	// Dir, means the whole repository.
	Subpath string
	// PageSize defaults to DefaultPageSize.
	PageSize int
	// Delimiter defaults to DefaultDelimiter.
	Delimiter string
}

// History is a pull-based cursor over commit history, newest first.
// It is not restartable and not safe for concurrent use.
type History struct {
	runner    execute.Runner
	dir       string
	subpath   string
	pageSize  int
	delimiter string

	page      int
	pending   []string
	exhausted bool
}

// NewHistory prepares a cursor. No git process is started until Next.
func NewHistory(runner execute.Runner, opts HistoryOptions) (*History, error) {
	if runner == nil {
		runner = execute.Default
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	subpath, err := relativeSubpath(opts.Dir, opts.Subpath)
	if err != nil {
		return nil, err
	}

	return &History{
		runner:    runner,
		dir:       opts.Dir,
		subpath:   subpath,
		pageSize:  pageSize,
		delimiter: delimiter,
	}, nil
}

// Next returns the next commit, or io.EOF once history is exhausted.
// Any other error is fatal for the traversal.
func (h *History) Next(ctx context.Context) (Commit, error) {
	for len(h.pending) == 0 {
		if h.exhausted {
			return Commit{}, io.EOF
		}
		if err := h.fetch(ctx); err != nil {
			return Commit{}, err
		}
	}

	text := h.pending[0]
	h.pending = h.pending[1:]
	if text == "" {
		h.exhausted = true
		h.pending = nil
		return Commit{}, io.EOF
	}
	return ParseRecord(text)
}

// Args returns the git arguments used for the given page.
func (h *History) Args(page int) []string {
	args := []string{
		"log", "--no-color",
		"-n", strconv.Itoa(h.pageSize),
		"--skip", strconv.Itoa(page * h.pageSize),
		"--format=%h %d%n%B%n" + h.delimiter,
	}
	if h.subpath != "" {
		args = append(args, "--", h.subpath)
	}
	return args
}

func (h *History) fetch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := h.runner.Run(ctx, execute.Options{
		Command: Binary,
		Args:    h.Args(h.page),
		Dir:     h.dir,
		Env:     Env,
	})
	if err != nil {
		return bump_err.NewGitError(fmt.Sprintf("failed to read history page %d", h.page), err)
	}

	segments := h.split(res.Stdout)
	otelzap.Ctx(ctx).Debug("History page fetched",
		zap.Int("page", h.page),
		zap.Int("records", len(segments)),
		zap.String("subpath", h.subpath))

	h.page++
	if len(segments) < h.pageSize {
		h.exhausted = true
	}
	h.pending = segments
	return nil
}

// split cuts one page of output into record texts. An empty page yields nil.
func (h *History) split(out string) []string {
	sep := "\n" + h.delimiter + "\n"
	out = strings.TrimSuffix(out, "\n")
	out = strings.TrimSuffix(out, "\n"+h.delimiter)
	if strings.TrimSpace(out) == "" {
		return nil
	}
	return strings.Split(out, sep)
}

// ParseRecord parses one record text into a Commit.
func ParseRecord(text string) (Commit, error) {
	m := recordPattern.FindStringSubmatch(text)
	if m == nil {
		return Commit{}, bump_err.NewGitError("unexpected git log output", &MalformedRecordError{Text: text})
	}
	return Commit{
		Hash:    m[1],
		Tags:    ParseDecorations(m[2]),
		Message: strings.TrimRight(m[3], "\n"),
	}, nil
}

// ParseDecorations extracts tag names from a %d decoration list, keeping
// git's order. Branches and HEAD markers are dropped.
func ParseDecorations(decorations string) []string {
	tags := []string{}
	for _, d := range strings.Split(decorations, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if m := tagPattern.FindStringSubmatch(d); m != nil {
			tags = append(tags, strings.TrimSpace(m[1]))
		}
	}
	return tags
}

func relativeSubpath(dir, subpath string) (string, error) {
	if subpath == "" {
		return "", nil
	}
	if !filepath.IsAbs(subpath) {
		subpath = filepath.Join(dir, subpath)
	}

	root, sub := resolvePath(dir), resolvePath(subpath)
	rel, err := filepath.Rel(root, sub)
	if err != nil {
		return "", cerr.Wrapf(err, "resolve %s relative to %s", subpath, dir)
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", bump_err.NewValidationError(
			fmt.Sprintf("path %s is outside repository %s", subpath, dir), nil)
	}
	return filepath.ToSlash(rel), nil
}

func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real
	}
	return filepath.Clean(p)
}

// pkg/bump/recommend.go

package bump

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/conventional"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/git"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultTagPrefix is stripped from tags before version validation.
const DefaultTagPrefix = "v"

// CommitPredicate inspects a raw history record.
type CommitPredicate func(git.Commit) bool

// Options configures Recommend. The zero value inspects the repository
// containing the current directory with the default policy.
type Options struct {
	// Path is the directory to inspect. History is scoped to it when it is
	// below the repository root.
	Path string
	// GitRoot skips root resolution when set.
	GitRoot string
	// CommitFilter rejects commits silently. Default accepts all.
	CommitFilter CommitPredicate
	// RevertCommit identifies reverts, which are skipped. Default never.
	RevertCommit CommitPredicate
	// CurrentVersion makes traversal stop only at the tag equal to it
	// (after prefix stripping) instead of at the first release tag.
	CurrentVersion string
	// TagPrefix defaults to DefaultTagPrefix.
	TagPrefix string
	// Parser defaults to conventional.DefaultParser.
	Parser conventional.Parser
	// Types maps commit types to "patch" or "minor". Nil selects DefaultTypes.
	Types map[string]string

	PageSize         int
	Delimiter        string
	Runner           execute.Runner
	VersionValidator VersionValidator
}

// TypeTally reports the commits filed under one bucket.
type TypeTally struct {
	Type    string   `json:"type" yaml:"type"`
	Unknown bool     `json:"unknown,omitempty" yaml:"unknown,omitempty"`
	Bump    Level    `json:"bump" yaml:"bump"`
	Commits []string `json:"commits" yaml:"commits"`
}

// Decision is the outcome of one traversal.
type Decision struct {
	ReleaseType Level                 `json:"releaseType" yaml:"releaseType"`
	Commits     []conventional.Commit `json:"commits" yaml:"commits"`
	// StoppedAt is the tag that ended traversal, empty when history ran out.
	StoppedAt string      `json:"stoppedAt,omitempty" yaml:"stoppedAt,omitempty"`
	Tally     []TypeTally `json:"tally" yaml:"tally"`
}

type state int

const (
	scanning state = iota
	stopped
)

// aggregator holds the per-call tally; it is never shared between calls.
type aggregator struct {
	policy         *TypePolicy
	buckets        map[TypeKey]*TypeBucket
	parser         conventional.Parser
	filter         CommitPredicate
	revert         CommitPredicate
	valid          VersionValidator
	tagPrefix      string
	currentVersion string

	state     state
	stoppedAt string
	minors    int
	majors    int
	commits   []conventional.Commit
}

// Recommend reads history newest-first until the last release tag and
// returns the recommended increment. Type configuration is validated before
// any git process runs. Errors from git abort the traversal and no partial
// decision is returned.
func Recommend(ctx context.Context, opts Options) (*Decision, error) {
	ctx, span := telemetry.Start(ctx, "bump.Recommend",
		attribute.String("current_version", opts.CurrentVersion))
	defer span.End()

	policy, err := NewTypePolicy(opts.Types)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	path, err := resolvePath(opts.Path)
	if err != nil {
		return nil, err
	}

	root := opts.GitRoot
	if root == "" {
		if root, err = git.Root(ctx, opts.Runner, path); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	history, err := git.NewHistory(opts.Runner, git.HistoryOptions{
		Dir:       root,
		Subpath:   path,
		PageSize:  opts.PageSize,
		Delimiter: opts.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	agg := newAggregator(policy, opts)
	log := otelzap.Ctx(ctx)
	log.Debug("Reading history",
		zap.String("root", root),
		zap.String("path", path),
		zap.String("tag_prefix", agg.tagPrefix),
		zap.Strings("types", policy.Types()))

	for agg.state == scanning {
		if err := ctx.Err(); err != nil {
			return nil, cerr.Wrap(err, "recommendation cancelled")
		}

		commit, err := history.Next(ctx)
		if cerr.Is(err, io.EOF) {
			agg.state = stopped
			break
		}
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		agg.step(commit)
	}

	dec := agg.decide()
	span.SetAttributes(
		attribute.String("release_type", dec.ReleaseType.String()),
		attribute.Int("commits", len(dec.Commits)),
		attribute.String("stopped_at", dec.StoppedAt))
	log.Info("Release type recommended",
		zap.Stringer("release_type", dec.ReleaseType),
		zap.Int("commits", len(dec.Commits)),
		zap.Int("unclassified", agg.buckets[UnknownType].Len()),
		zap.String("stopped_at", dec.StoppedAt))
	return dec, nil
}

func newAggregator(policy *TypePolicy, opts Options) *aggregator {
	a := &aggregator{
		policy:         policy,
		buckets:        map[TypeKey]*TypeBucket{UnknownType: newTypeBucket(Patch)},
		parser:         opts.Parser,
		filter:         opts.CommitFilter,
		revert:         opts.RevertCommit,
		valid:          opts.VersionValidator,
		tagPrefix:      opts.TagPrefix,
		currentVersion: opts.CurrentVersion,
	}
	for _, name := range policy.Types() {
		_, level := policy.Lookup(name)
		a.buckets[NamedType(name)] = newTypeBucket(level)
	}
	if a.parser == nil {
		a.parser = conventional.DefaultParser()
	}
	if a.filter == nil {
		a.filter = func(git.Commit) bool { return true }
	}
	if a.revert == nil {
		a.revert = func(git.Commit) bool { return false }
	}
	if a.valid == nil {
		a.valid = IsValidVersion
	}
	if a.tagPrefix == "" {
		a.tagPrefix = DefaultTagPrefix
	}
	return a
}

// step processes one record while scanning.
func (a *aggregator) step(c git.Commit) {
	if !a.filter(c) {
		return
	}
	if a.revert(c) {
		return
	}
	if tag, ok := a.releaseTag(c); ok {
		a.state = stopped
		a.stoppedAt = tag
		return
	}

	classified, ok := conventional.Classify(a.parser, c)
	if !ok {
		a.buckets[UnknownType].Add(c.Hash)
	} else {
		key, level := a.policy.Lookup(classified.Type)
		a.buckets[key].Add(c.Hash)
		if !key.Unknown() && level == Minor {
			a.minors++
		}
		if classified.BreakingChange {
			a.majors++
		}
	}
	a.commits = append(a.commits, classified)
}

// releaseTag returns the first tag, in decoration order, that ends traversal.
func (a *aggregator) releaseTag(c git.Commit) (string, bool) {
	for _, tag := range c.Tags {
		candidate := strings.TrimPrefix(tag, a.tagPrefix)
		if candidate == "" || !a.valid(candidate) {
			continue
		}
		if a.currentVersion == "" || candidate == a.currentVersion {
			return tag, true
		}
	}
	return "", false
}

func (a *aggregator) decide() *Decision {
	dec := &Decision{
		ReleaseType: Patch,
		Commits:     a.commits,
		StoppedAt:   a.stoppedAt,
	}
	switch {
	case a.majors > 0:
		dec.ReleaseType = Major
	case a.minors > 0:
		dec.ReleaseType = Minor
	}
	if dec.Commits == nil {
		dec.Commits = []conventional.Commit{}
	}

	keys := make([]TypeKey, 0, len(a.buckets))
	for k := range a.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Unknown() != keys[j].Unknown() {
			return !keys[i].Unknown()
		}
		return keys[i].Name() < keys[j].Name()
	})
	for _, k := range keys {
		b := a.buckets[k]
		dec.Tally = append(dec.Tally, TypeTally{
			Type:    k.String(),
			Unknown: k.Unknown(),
			Bump:    b.Bump,
			Commits: b.Hashes(),
		})
	}
	return dec
}

func resolvePath(p string) (string, error) {
	if p == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", cerr.Wrap(err, "failed to get working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", cerr.Wrapf(err, "failed to resolve path %s", p)
	}
	return abs, nil
}

// pkg/conventional/parser.go

package conventional

import (
	"sort"
	"strings"

	cerr "github.com/cockroachdb/errors"
	conventionalcommits "github.com/leodido/go-conventionalcommits"
	ccparser "github.com/leodido/go-conventionalcommits/parser"
)

// Parser turns a commit message into a parse tree. A nil tree with a nil
// error is treated the same as a failure.
type Parser interface {
	Parse(message string) (*Node, error)
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(message string) (*Node, error)

// Parse implements Parser.
func (f ParserFunc) Parse(message string) (*Node, error) {
	return f(message)
}

// ErrNotConventional is returned when the grammar accepts the input but it
// carries no conventional commit.
var ErrNotConventional = cerr.New("not a conventional commit")

type machineParser struct {
	machine conventionalcommits.Machine
}

// DefaultParser returns the Conventional Commits 1.0 grammar with free-form
// types, so any type token is accepted and policy decides what it means.
//
// The grammar runs in best-effort mode: once a header with a type and a
// description has been read, a later grammar error (a footer value that
// wraps onto the next line, say) keeps everything parsed up to that point.
func DefaultParser() Parser {
	return &machineParser{
		machine: ccparser.NewMachine(
			conventionalcommits.WithTypes(conventionalcommits.TypesFreeForm),
			conventionalcommits.WithBestEffort(),
		),
	}
}

func (p *machineParser) Parse(message string) (*Node, error) {
	text := strings.TrimSpace(strings.ReplaceAll(message, "\r\n", "\n"))
	msg, err := p.machine.Parse([]byte(text))

	cc, _ := msg.(*conventionalcommits.ConventionalCommit)
	if cc == nil || cc.Type == "" {
		if err != nil {
			return nil, cerr.Wrap(err, "parse conventional commit")
		}
		return nil, ErrNotConventional
	}

	restoreCase(cc, text)
	return toTree(cc), nil
}

// restoreCase puts back the type and scope exactly as written in the
// header; the grammar lowercases both.
func restoreCase(cc *conventionalcommits.ConventionalCommit, text string) {
	header := text
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	n := len(cc.Type)
	if len(header) < n || !strings.EqualFold(header[:n], cc.Type) {
		return
	}
	cc.Type = header[:n]

	if cc.Scope == nil || len(header) <= n || header[n] != '(' {
		return
	}
	rest := header[n+1:]
	if m := len(*cc.Scope); len(rest) >= m && strings.EqualFold(rest[:m], *cc.Scope) {
		scope := rest[:m]
		cc.Scope = &scope
	}
}

func toTree(cc *conventionalcommits.ConventionalCommit) *Node {
	summary := &Node{Kind: KindSummary}
	summary.Children = append(summary.Children, leaf(KindType, cc.Type))
	if cc.Scope != nil {
		summary.Children = append(summary.Children, leaf(KindScope, *cc.Scope))
	}
	if cc.Exclamation {
		summary.Children = append(summary.Children, leaf(KindBreakingChange, "!"))
	}
	summary.Children = append(summary.Children,
		leaf(KindSeparator, ": "),
		leaf(KindText, cc.Description))

	root := &Node{Kind: KindMessage, Children: []*Node{summary}}

	if cc.Body != nil && *cc.Body != "" {
		root.Children = append(root.Children, &Node{
			Kind:     KindBody,
			Children: []*Node{leaf(KindText, *cc.Body)},
		})
	}

	// map iteration order is random; footers are emitted sorted by token
	tokens := make([]string, 0, len(cc.Footers))
	for token := range cc.Footers {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	for _, token := range tokens {
		head := leaf(KindToken, token)
		if isBreakingToken(token) {
			head = leaf(KindBreakingChange, token)
		}
		for _, value := range cc.Footers[token] {
			root.Children = append(root.Children, &Node{
				Kind:     KindFooter,
				Children: []*Node{head, leaf(KindSeparator, ": "), leaf(KindText, value)},
			})
		}
	}
	return root
}

func isBreakingToken(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "breaking change", "breaking-change":
		return true
	}
	return false
}

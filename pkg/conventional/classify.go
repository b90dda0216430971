// pkg/conventional/classify.go

package conventional

import (
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/git"
)

// Commit is a history record with the fields derived from its parse tree.
// Derived fields are empty when the message could not be parsed.
type Commit struct {
	git.Commit `yaml:",inline"`

	Summary        string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	Scope          string `json:"scope,omitempty" yaml:"scope,omitempty"`
	BreakingChange bool   `json:"breakingChange,omitempty" yaml:"breakingChange,omitempty"`
	ParsedBody     *Node  `json:"parsedBody,omitempty" yaml:"parsedBody,omitempty"`
}

// Classify parses raw.Message and returns the annotated copy. The boolean
// is false when the parser failed or produced no tree; the returned Commit
// then only carries the raw fields.
//
// Every node is visited in pre-order; repeated type or scope nodes
// overwrite earlier ones.
func Classify(p Parser, raw git.Commit) (Commit, bool) {
	out := Commit{Commit: raw}
	if p == nil {
		p = DefaultParser()
	}

	tree, err := p.Parse(raw.Message)
	if err != nil || tree == nil {
		return out, false
	}

	Walk(tree, func(n *Node) {
		switch n.Kind {
		case KindSummary:
			out.Summary = summaryText(n)
		case KindType:
			out.Type = n.Value
		case KindScope:
			out.Scope = n.Value
		case KindBreakingChange:
			out.BreakingChange = true
		}
	})
	out.ParsedBody = tree
	return out, true
}

func summaryText(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindText {
			sb.WriteString(c.Value)
		}
	}
	return sb.String()
}

// Package conventional turns commit messages into Conventional Commits parse
// trees and derives the summary, type, scope and breaking-change fields the
// bump aggregator tallies.
package conventional

// Kind names a parse tree node.
type Kind string

const (
	KindMessage        Kind = "message"
	KindSummary        Kind = "summary"
	KindType           Kind = "type"
	KindScope          Kind = "scope"
	KindBreakingChange Kind = "breaking-change"
	KindSeparator      Kind = "separator"
	KindText           Kind = "text"
	KindBody           Kind = "body"
	KindFooter         Kind = "footer"
	KindToken          Kind = "token"
)

// Node is one element of a parse tree. Leaves carry a Value; inner nodes
// carry Children.
type Node struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Value    string  `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Walk visits n and its descendants in pre-order (document order).
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

func leaf(kind Kind, value string) *Node {
	return &Node{Kind: kind, Value: value}
}

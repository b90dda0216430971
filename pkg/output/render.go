// pkg/output/render.go

package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/bump_err"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/conventional"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Styles used by text output. Plain styles render text unchanged.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Major   lipgloss.Style
	Minor   lipgloss.Style
	Patch   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Header: s, Major: s, Minor: s, Patch: s, Muted: s, Warning: s}
}

// TerminalStyles returns colored styles bound to w's color profile.
func TerminalStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true),
		Header:  r.NewStyle().Bold(true).Underline(true),
		Major:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Minor:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Patch:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Muted:   r.NewStyle().Faint(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// StylesFor picks terminal styles for a terminal and plain styles otherwise.
func StylesFor(w io.Writer) Styles {
	if IsTerminal(w) {
		return TerminalStyles(w)
	}
	return PlainStyles()
}

// TextFunc renders the human-readable form of a result.
type TextFunc func(w io.Writer, st Styles) error

// Write renders data in format. Text output uses text with styles chosen
// for w.
func Write(w io.Writer, format string, data interface{}, text TextFunc) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatYAML:
		return YAMLTo(w, data)
	case FormatText, "":
		return text(w, StylesFor(w))
	default:
		return bump_err.NewValidationError(fmt.Sprintf("unknown output format %q", format), nil,
			"use one of: text, json, yaml")
	}
}

// Decision renders a recommendation.
func Decision(w io.Writer, format string, dec *bump.Decision) error {
	return Write(w, format, dec, func(w io.Writer, st Styles) error {
		return DecisionText(w, dec, st)
	})
}

// DecisionText writes the recommendation, the commits behind it and the
// per-type tally.
func DecisionText(w io.Writer, dec *bump.Decision, st Styles) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", st.Title.Render("Recommended bump:"), levelStyle(st, dec.ReleaseType).Render(dec.ReleaseType.String()))
	if dec.StoppedAt != "" {
		fmt.Fprintf(&sb, "%s %s\n", st.Title.Render("Since tag:"), dec.StoppedAt)
	} else {
		fmt.Fprintf(&sb, "%s %s\n", st.Title.Render("Since tag:"), st.Muted.Render("none (whole history)"))
	}

	if len(dec.Commits) == 0 {
		sb.WriteString(st.Muted.Render("No commits since the last release.") + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	table := NewTable().
		WithHeaders("HASH", "TYPE", "SCOPE", "BREAKING", "SUMMARY").
		WithHeaderStyle(st.Header.Render)
	for _, c := range dec.Commits {
		table.AddRow(commitRow(c)...)
	}
	if err := table.Render(w); err != nil {
		return err
	}

	var tally strings.Builder
	tally.WriteString("\n")
	for _, t := range dec.Tally {
		if len(t.Commits) == 0 {
			continue
		}
		name := t.Type
		if t.Unknown {
			name = "other"
		}
		fmt.Fprintf(&tally, "%s %d (%s)\n", st.Muted.Render(name+":"), len(t.Commits), t.Bump)
	}
	_, err := io.WriteString(w, tally.String())
	return err
}

func commitRow(c conventional.Commit) []string {
	typ, summary := c.Type, c.Summary
	if c.ParsedBody == nil {
		typ = "-"
		summary = firstLine(c.Message)
	}
	breaking := ""
	if c.BreakingChange {
		breaking = "yes"
	}
	return []string{c.Hash, typ, c.Scope, breaking, summary}
}

func levelStyle(st Styles, l bump.Level) lipgloss.Style {
	switch l {
	case bump.Major:
		return st.Major
	case bump.Minor:
		return st.Minor
	default:
		return st.Patch
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

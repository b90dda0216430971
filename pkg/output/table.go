package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableWriter collects rows and renders them as aligned columns.
type TableWriter struct {
	headers []string
	rows    [][]string
	header  func(...string) string
}

// NewTable creates an empty table.
func NewTable() *TableWriter {
	return &TableWriter{header: func(s ...string) string { return strings.Join(s, " ") }}
}

// WithHeaders sets the column headers for the table
func (t *TableWriter) WithHeaders(headers ...string) *TableWriter {
	t.headers = headers
	return t
}

// WithHeaderStyle styles the header line after alignment, so escape
// sequences do not skew column widths. It takes lipgloss.Style.Render.
func (t *TableWriter) WithHeaderStyle(style func(...string) string) *TableWriter {
	if style != nil {
		t.header = style
	}
	return t
}

// AddRow adds a row of data to the table
func (t *TableWriter) AddRow(values ...string) *TableWriter {
	t.rows = append(t.rows, values)
	return t
}

// Len is the number of data rows.
func (t *TableWriter) Len() int { return len(t.rows) }

// Render writes the table to w.
func (t *TableWriter) Render(w io.Writer) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	if len(t.headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.headers, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.SplitAfter(buf.String(), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		if i == 0 && len(t.headers) > 0 {
			line = t.header(strings.TrimRight(line, " \n")) + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Package output renders command results as aligned tables or JSON.
//
// Commands build their rows once and let the Printer decide the format, so
// --output json works uniformly. Colors are only emitted to terminals.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

const (
	// FormatTable renders aligned columns for humans.
	FormatTable Format = "table"

	// FormatJSON renders indented JSON for scripts.
	FormatJSON Format = "json"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("invalid output format %q: must be table or json", s)
}

// Printer writes formatted output to a target writer.
type Printer struct {
	w      io.Writer
	format Format
	color  bool
}

// NewPrinter creates a Printer that writes to w.
// Colors are enabled only when noColor is false, NO_COLOR is unset and w is a terminal.
func NewPrinter(w io.Writer, format Format, noColor bool) *Printer {
	return &Printer{w: w, format: format, color: !noColor && ColorEnabled(w)}
}

// ColorEnabled reports whether w is a terminal that should receive ANSI colors.
func ColorEnabled(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsJSON reports whether the printer emits JSON.
func (p *Printer) IsJSON() bool {
	return p.format == FormatJSON
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// JSON marshals v and writes it as indented JSON.
func (p *Printer) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(b))
	return err
}

// Table renders rows under headers with tab-aligned columns.
func (p *Printer) Table(headers []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, body, _ := strings.Cut(buf.String(), "\n")
	if _, err := fmt.Fprintln(p.w, p.paint(headerStyle, strings.TrimRight(header, " "))); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, body)
	return err
}

// Render writes v as JSON, or rows as a table, depending on the format.
// empty is printed instead of an empty table.
func (p *Printer) Render(v interface{}, headers []string, rows [][]string, empty string) error {
	if p.IsJSON() {
		return p.JSON(v)
	}
	if len(rows) == 0 && empty != "" {
		_, err := fmt.Fprintln(p.w, p.paint(dimStyle, empty))
		return err
	}
	return p.Table(headers, rows)
}

// KeyValues writes aligned "key: value" lines.
func (p *Printer) KeyValues(pairs [][2]string) error {
	width := 0
	for _, kv := range pairs {
		if len(kv[0]) > width {
			width = len(kv[0])
		}
	}
	for _, kv := range pairs {
		key := fmt.Sprintf("%-*s", width+1, kv[0]+":")
		if _, err := fmt.Fprintf(p.w, "%s %s\n", p.paint(keyStyle, key), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Success reports a completed action. It is silent in JSON mode.
func (p *Printer) Success(format string, args ...interface{}) {
	if p.IsJSON() {
		return
	}
	fmt.Fprintln(p.w, p.paint(successStyle, fmt.Sprintf(format, args...)))
}

// Warning writes a highlighted notice.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.paint(warnStyle, fmt.Sprintf(format, args...)))
}

// Error writes err prefixed with "Error: ".
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.paint(errorStyle, "Error:")+" "+err.Error())
}

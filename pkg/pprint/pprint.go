// Package pprint provides rich terminal output formatting for the devctl CLI:
// coloured status lines, section headers, key/value pairs and tables.
//
// Every helper writes through a Printer bound to one io.Writer. Styling is
// dropped when that writer is not a terminal, so captured output stays plain.
package pprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─────────────────────────────────────────────────────────────────────────────
// Colour palette
// ─────────────────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("#7B8CDE") // blue-purple
	ColorAccent  = lipgloss.Color("#56E0C8") // Teal
	ColorSuccess = lipgloss.Color("#48BB78") // Green
	ColorWarning = lipgloss.Color("#F6AD55") // Amber
	ColorError   = lipgloss.Color("#FC8181") // Red
	ColorMuted   = lipgloss.Color("#718096") // Grey
	ColorText    = lipgloss.Color("#E2E8F0") // Off-white
)

// ─────────────────────────────────────────────────────────────────────────────
// Styles
// ─────────────────────────────────────────────────────────────────────────────

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// ─────────────────────────────────────────────────────────────────────────────
// Printer
// ─────────────────────────────────────────────────────────────────────────────

// Printer writes styled lines to a single writer.
type Printer struct {
	out   io.Writer
	plain bool
}

// New returns a Printer for w. Styling is enabled only when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{out: w, plain: !isTerminal(w)}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

// Success prints a green ✓ success line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(StyleSuccess, "✓ ")+p.render(StyleText, fmt.Sprintf(format, args...)))
}

// Warn prints an amber ⚠ warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(StyleWarning, "⚠ ")+p.render(StyleText, fmt.Sprintf(format, args...)))
}

// Error prints a red ✗ error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(StyleError, "✗ ")+p.render(StyleText, fmt.Sprintf(format, args...)))
}

// Info prints a dimmed info line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(StyleMuted, "  "+fmt.Sprintf(format, args...)))
}

// Linef prints an unstyled formatted line.
func (p *Printer) Linef(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Title prints a bold accent line, used for command headings.
func (p *Printer) Title(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(StylePrimary, fmt.Sprintf(format, args...)))
}

// Label prints key in label style followed by value on the same line.
func (p *Printer) Label(key, value string) {
	fmt.Fprintln(p.out, p.render(StyleWarning, key)+value)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	bar := strings.Repeat("─", 60)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(StylePrimary, bar))
	fmt.Fprintln(p.out, p.render(StylePrimary, " ◉ "+strings.ToUpper(title)))
	fmt.Fprintln(p.out, p.render(StylePrimary, bar))
}

// KV prints a labelled key-value pair.
func (p *Printer) KV(key, value string) {
	fmt.Fprintln(p.out, p.render(StyleLabel, fmt.Sprintf("%-12s", key))+p.render(StyleText, value))
}

// Banner prints msg between two rows of 80 asterisks in warning style.
func (p *Printer) Banner(msg string) {
	stars := strings.Repeat("*", 80)
	fmt.Fprintln(p.out, p.render(StyleWarning, stars))
	fmt.Fprintln(p.out, p.render(StyleWarning, msg))
	fmt.Fprintln(p.out, p.render(StyleWarning, stars))
}

// ─────────────────────────────────────────────────────────────────────────────
// Package-level helpers
// ─────────────────────────────────────────────────────────────────────────────

// Error prints an error line to stderr.
func Error(format string, args ...any) { New(os.Stderr).Error(format, args...) }

// ─────────────────────────────────────────────────────────────────────────────
// Table
// ─────────────────────────────────────────────────────────────────────────────

// Table renders a simple terminal table with coloured headers.
type Table struct {
	headers []string
	rows    [][]string
	p       *Printer
}

// NewTable creates a new Table writing through p.
func (p *Printer) NewTable(headers ...string) *Table {
	return &Table{headers: headers, p: p}
}

// AddRow appends a data row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render prints the table.
func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	out := t.p.out
	var header strings.Builder
	for i, h := range t.headers {
		fmt.Fprintf(&header, "%-*s", widths[i]+2, h)
	}
	fmt.Fprintln(out, t.p.render(StylePrimary, strings.TrimRight(header.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w+2))
	}
	fmt.Fprintln(out, t.p.render(StyleMuted, sep.String()))

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			fmt.Fprintf(&line, "%-*s", w+2, cell)
		}
		fmt.Fprintln(out, t.p.render(StyleText, strings.TrimRight(line.String(), " ")))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

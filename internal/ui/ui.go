// Package ui prints records, field listings and diagnostics for trackr
// commands. Records go to the output writer; status messages go to the
// error writer so they never mix with piped output.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/trackr/internal/cache"
	"github.com/papapumpkin/trackr/internal/fields"
)

// Row is one rendered field.
type Row struct {
	Name  string
	Value string
}

// Printer writes styled output for the CLI.
type Printer struct {
	out io.Writer
	err io.Writer
	s   styles
}

// New creates a printer on stdout and stderr. Colour is enabled only when
// stdout is a terminal.
func New() *Printer {
	return &Printer{out: os.Stdout, err: os.Stderr, s: newStyles(lipgloss.NewRenderer(os.Stdout))}
}

// NewPlain creates a printer without colour on the given writers.
func NewPlain(out, errw io.Writer) *Printer {
	return &Printer{out: out, err: errw, s: newStyles(plainRenderer())}
}

// Out returns the writer records are printed to.
func (p *Printer) Out() io.Writer { return p.out }

// Heading prints an issue key and summary.
func (p *Printer) Heading(key, summary string) {
	fmt.Fprintln(p.out, p.s.heading.Render(key)+"  "+p.s.value.Render(summary))
}

// Fields prints name/value rows with the names right-aligned. Continuation
// lines of multi-line values are indented under the value column.
func (p *Printer) Fields(rows []Row) {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Name))
	}
	pad := strings.Repeat(" ", width+2)
	for _, r := range rows {
		name := strings.Repeat(" ", width-lipgloss.Width(r.Name)) + r.Name
		style := p.s.value
		if strings.HasPrefix(r.Value, "[Error: ") {
			style = p.s.inline
		}
		lines := strings.Split(r.Value, "\n")
		fmt.Fprintln(p.out, p.s.label.Render(name)+": "+style.Render(lines[0]))
		for _, l := range lines[1:] {
			fmt.Fprintln(p.out, pad+style.Render(l))
		}
	}
}

// Text prints a block of free text, such as a description, after a blank
// line.
func (p *Printer) Text(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.s.heading.Render(title))
	fmt.Fprintln(p.out, body)
}

// Registry prints the merged field table.
func (p *Printer) Registry(entries []fields.Entry) {
	keyWidth, nameWidth := 0, 0
	for _, e := range entries {
		keyWidth = max(keyWidth, len(e.Key))
		nameWidth = max(nameWidth, len(e.Name))
	}
	for _, e := range entries {
		line := p.s.key.Render(fmt.Sprintf("%-*s", keyWidth, e.Key)) + "  " +
			fmt.Sprintf("%-*s", nameWidth, e.Name) + "  " +
			p.s.muted.Render(e.Strategy)
		var flags []string
		if e.Immutable {
			flags = append(flags, "immutable")
		}
		if e.Verbose {
			flags = append(flags, "verbose")
		}
		if len(flags) > 0 {
			line += p.s.muted.Render(" (" + strings.Join(flags, ", ") + ")")
		}
		if e.Alias != "" {
			line += "  " + p.s.alias.Render("alias:"+e.Alias)
		}
		fmt.Fprintln(p.out, line)
	}
}

// CacheStats prints the request cache counters, busiest endpoints first.
func (p *Printer) CacheStats(s cache.Stats) {
	fmt.Fprintln(p.out, p.s.heading.Render("request cache"))
	fmt.Fprintf(p.out, "  urls:     %d\n", s.URLs)
	fmt.Fprintf(p.out, "  entries:  %d\n", s.Entries)
	fmt.Fprintf(p.out, "  hits:     %d\n", s.Hits)
	if len(s.Calls) == 0 {
		return
	}

	keys := make([]string, 0, len(s.Calls))
	for k := range s.Calls {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.Calls[keys[i]] != s.Calls[keys[j]] {
			return s.Calls[keys[i]] > s.Calls[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintln(p.out, p.s.muted.Render("  calls:"))
	for _, k := range keys {
		fmt.Fprintf(p.out, "    %4d  %s\n", s.Calls[k], k)
	}
}

// Check prints a validation result line.
func (p *Printer) Check(label string, err error) {
	if err == nil {
		fmt.Fprintln(p.err, p.s.success.Render(iconDone+" "+label))
		return
	}
	fmt.Fprintln(p.err, p.s.danger.Render(iconFailed+" "+label)+": "+err.Error())
}

// Success prints a confirmation.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.err, p.s.success.Render(iconDone)+" "+msg)
}

// Info prints a de-emphasized status message.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.err, p.s.muted.Render(msg))
}

// Warn prints a warning.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.err, p.s.warn.Render(iconWarn+" warning: ")+msg)
}

// Error prints an error.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.err, p.s.danger.Render("error: ")+msg)
}

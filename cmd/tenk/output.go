package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/ingest"
)

// printer writes styled terminal output. Styles degrade to plain text when
// w is not a terminal.
type printer struct {
	w       io.Writer
	heading lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		err:     r.NewStyle().Foreground(lipgloss.Color("196")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Warn prints a warning line.
func (p *printer) Warn(msg string) {
	fmt.Fprintln(p.w, p.warning.Render("warning: "+msg))
}

// Error prints the user-facing message of err.
func (p *printer) Error(err error) {
	fmt.Fprintln(p.w, p.err.Render("error: "+tenk.ErrorMessage(err)))
}

// Heading prints a section title.
func (p *printer) Heading(title string) {
	fmt.Fprintln(p.w, p.heading.Render(title))
}

// Results prints the fragments retrieved for one year.
func (p *printer) Results(year tenk.Year, results []*tenk.TextResult) {
	p.Heading(fmt.Sprintf("Response for year %d", int(year)))
	if len(results) == 0 {
		fmt.Fprintln(p.w, p.dim.Render("No matching text."))
		fmt.Fprintln(p.w)
		return
	}
	fmt.Fprintln(p.w, tenk.FormatResults(results))
	fmt.Fprintln(p.w)
}

// Answer prints a synthesized answer followed by its sources.
func (p *printer) Answer(a *tenk.SynthesizedAnswer) {
	fmt.Fprintln(p.w, strings.TrimSpace(a.Text))
	if sources := a.FormattedSources(); sources != "" {
		fmt.Fprintln(p.w)
		p.Heading("Sources")
		fmt.Fprintln(p.w, p.dim.Render(sources))
	}
}

// progressPrinter reports index build progress on out.
func progressPrinter(out *printer) ingest.ProgressFunc {
	var mu sync.Mutex
	return func(e ingest.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Type {
		case ingest.ProgressLoaded:
			fmt.Fprintln(out.w, out.dim.Render(fmt.Sprintf("loaded %d: %d records", int(e.Year), e.Records)))
		case ingest.ProgressRestored:
			fmt.Fprintln(out.w, out.dim.Render(fmt.Sprintf("restored %d: %d records", int(e.Year), e.Records)))
		case ingest.ProgressBuilt:
			fmt.Fprintln(out.w, out.dim.Render(fmt.Sprintf("built %d: %d records", int(e.Year), e.Records)))
		case ingest.ProgressSaveFailed:
			out.Warn(fmt.Sprintf("could not save index for %d: %s", int(e.Year), tenk.ErrorMessage(e.Error)))
		}
	}
}

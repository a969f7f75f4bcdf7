package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/examstat-cli/internal/analysis"
	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Printer writes headings, diagnostics and result tables to one writer.
type Printer struct {
	w       io.Writer
	heading *color.Color
	fail    *color.Color
	ok      *color.Color
	warn    *color.Color
}

// New returns a Printer. With useColor false no escape codes are written;
// with true colouring still follows fatih/color's terminal detection.
func New(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		fail:    color.New(color.FgRed),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
	}
	if !useColor {
		for _, c := range []*color.Color{p.heading, p.fail, p.ok, p.warn} {
			c.DisableColor()
		}
	}
	return p
}

// Writer exposes the underlying writer for plain output.
func (p *Printer) Writer() io.Writer { return p.w }

// Printf writes formatted plain text.
func (p *Printer) Printf(format string, args ...any) { fmt.Fprintf(p.w, format, args...) }

// Println writes plain text followed by a newline.
func (p *Printer) Println(args ...any) { fmt.Fprintln(p.w, args...) }

// Heading prints a section title on its own line, preceded by a blank line.
func (p *Printer) Heading(format string, args ...any) {
	fmt.Fprintln(p.w)
	p.heading.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

// Errorf prints exactly one diagnostic line.
func (p *Printer) Errorf(format string, args ...any) {
	p.fail.Fprintf(p.w, "✗ "+format, args...)
	fmt.Fprintln(p.w)
}

// Successf prints one green line prefixed with ✓.
func (p *Printer) Successf(format string, args ...any) {
	p.ok.Fprintf(p.w, "✓ "+format, args...)
	fmt.Fprintln(p.w)
}

// Warnf prints one yellow line prefixed with ⚠.
func (p *Printer) Warnf(format string, args ...any) {
	p.warn.Fprintf(p.w, "⚠ "+format, args...)
	fmt.Fprintln(p.w)
}

func (p *Printer) table(header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(p.w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	return t
}

// Info prints the dataset shape, its columns and the head rows.
func (p *Printer) Info(info analysis.Info) {
	p.Heading("--- Dataset Info ---")
	p.Printf("File: %s\n", info.Name)
	p.Printf("Rows: %d\n", info.Rows)
	p.Printf("Columns: %d\n", len(info.Columns))

	cols := p.table([]string{"Column", "Kind", "Missing"})
	header := make([]string, 0, len(info.Columns))
	for _, c := range info.Columns {
		cols.Append([]string{c.Name, string(c.Kind), strconv.Itoa(c.Missing)})
		header = append(header, c.Name)
	}
	cols.Render()

	if len(info.Head) == 0 {
		return
	}
	p.Printf("\nFirst %d rows:\n", len(info.Head))
	head := p.table(header)
	head.AppendBulk(info.Head)
	head.Render()
}

// Stats prints mean (two decimals), min/max (native precision), std and count per subject.
func (p *Printer) Stats(stats []analysis.SubjectStats) {
	p.Heading("===== SCORE STATISTICS =====")
	if len(stats) == 0 {
		p.Warnf("no score columns found")
		return
	}
	t := p.table([]string{"Subject", "Average", "Minimum", "Maximum", "Std Dev", "N"})
	for _, s := range stats {
		if s.NoData {
			t.Append([]string{s.Subject.Label(), "no data", "no data", "no data", "-", "0"})
			continue
		}
		t.Append([]string{
			s.Subject.Label(),
			analysis.FormatMean(s.Mean),
			analysis.FormatNative(s.Min),
			analysis.FormatNative(s.Max),
			strconv.FormatFloat(s.Std, 'f', 2, 64),
			strconv.Itoa(s.Count),
		})
	}
	t.Render()
}

// Corr prints the correlation matrix.
func (p *Printer) Corr(m *analysis.CorrMatrix) {
	p.Heading("===== SUBJECT CORRELATION =====")
	if m == nil || len(m.Subjects) == 0 {
		p.Warnf("no score columns found")
		return
	}
	header := []string{""}
	for _, s := range m.Subjects {
		header = append(header, s.Key())
	}
	t := p.table(header)
	for i, s := range m.Subjects {
		row := []string{s.Key()}
		for j := range m.Subjects {
			row = append(row, analysis.FormatCorr(m.Values[i][j]))
		}
		t.Append(row)
	}
	t.Render()
}

// Comparison prints per-group means in first-seen order.
func (p *Printer) Comparison(c *analysis.Comparison) {
	p.Heading("--- Comparing scores by %s ---", c.Category)
	p.groups(c)
}

// PrepEffect prints the test-preparation comparison and its interpretation.
func (p *Printer) PrepEffect(e *analysis.PrepEffect) {
	p.Heading("===== TEST PREPARATION EFFECT =====")
	p.groups(e.Comparison)
	p.Printf("\nInterpretation:\n%s\n", e.Interpretation)
}

func (p *Printer) groups(c *analysis.Comparison) {
	header := []string{dataset.HumanizeName(c.Category), "N"}
	for _, s := range c.Subjects {
		header = append(header, s.Label()+" Avg")
	}
	t := p.table(header)
	for _, g := range c.Groups {
		label := g.Label
		if label == "" {
			label = "(missing)"
		}
		row := []string{label, strconv.Itoa(g.Size)}
		for _, m := range g.Means {
			row = append(row, analysis.FormatMean(m))
		}
		t.Append(row)
	}
	t.Render()
}

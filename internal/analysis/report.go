package analysis

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/google/uuid"
)

// Report bundles every analysis of a dataset for Markdown export.
type Report struct {
	ID          string
	CreatedAt   time.Time
	Info        Info
	Stats       []SubjectStats
	Corr        *CorrMatrix
	Comparisons []*Comparison
	Prep        *PrepEffect
	Warnings    []string
}

// ReportOptions selects what BuildReport includes.
type ReportOptions struct {
	SampleRows int
	GroupBy    []string
}

// BuildReport runs all analyses. Unknown group-by columns are skipped with a warning.
func BuildReport(t *dataset.Table, opt ReportOptions) *Report {
	rep := &Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Info:      Inspect(t, opt.SampleRows),
		Stats:     Describe(t),
		Corr:      Correlate(t),
	}
	for _, g := range opt.GroupBy {
		if strings.TrimSpace(g) == "" {
			continue
		}
		cmp, err := CompareGroups(t, g)
		if err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("skipped group-by %q: %v", g, err))
			continue
		}
		rep.Comparisons = append(rep.Comparisons, cmp)
	}
	if prep, err := TestPrepEffect(t); err == nil {
		rep.Prep = prep
	}
	if len(rep.Stats) < len(dataset.Subjects()) {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("only %d of %d score columns found", len(rep.Stats), len(dataset.Subjects())))
	}
	return rep
}

// Markdown renders a compact report suitable for sharing or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Info.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Info.Name))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Info.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Info.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Info.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.Kind))
		if c.Missing > 0 {
			b.WriteString(fmt.Sprintf(" (missing %d)", c.Missing))
		}
		b.WriteString("\n")
	}

	if len(r.Stats) > 0 {
		b.WriteString("\n[SCORE STATISTICS]\n")
		for _, s := range r.Stats {
			if s.NoData {
				b.WriteString(fmt.Sprintf("- %s: no data\n", s.Subject.Label()))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: mean %s, min %s, max %s, std %.2f (n=%d)\n",
				s.Subject.Label(), FormatMean(s.Mean), FormatNative(s.Min), FormatNative(s.Max), s.Std, s.Count))
		}
	}

	if r.Corr != nil && len(r.Corr.Subjects) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		n := len(r.Corr.Subjects)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s\n",
					r.Corr.Subjects[i].Key(), r.Corr.Subjects[j].Key(), FormatCorr(r.Corr.Values[i][j])))
			}
		}
	}

	for _, c := range r.Comparisons {
		b.WriteString(fmt.Sprintf("\n[GROUP-BY %s]\n", strings.ToUpper(c.Category)))
		writeGroups(&b, c)
	}
	if r.Prep != nil {
		b.WriteString("\n[TEST PREPARATION EFFECT]\n")
		writeGroups(&b, r.Prep.Comparison)
		b.WriteString(r.Prep.Interpretation)
		b.WriteString("\n")
	}

	if len(r.Info.Head) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Info.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Info.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Info.Head {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeGroups(b *strings.Builder, c *Comparison) {
	for _, g := range c.Groups {
		b.WriteString(fmt.Sprintf("- %s (n=%d)\n", safeVal(g.Label), g.Size))
		for i, s := range c.Subjects {
			b.WriteString(fmt.Sprintf("  • %s avg: %s\n", s.Label(), FormatMean(g.Means[i])))
		}
	}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	if s == "" {
		return "(missing)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

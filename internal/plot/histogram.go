package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/KaramelBytes/examstat-cli/internal/utils"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultBins matches the usual histogram default of ten equal-width bins.
const DefaultBins = 10

// Bin is one equal-width interval. The last bin of a histogram is closed on both ends.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram is the binned distribution of one subject.
type Histogram struct {
	Subject dataset.Subject
	Bins    []Bin
	Values  []float64
	Dropped int
}

// NewHistogram resolves the subject name against the table, drops missing
// values and bins the rest over [min, max].
func NewHistogram(t *dataset.Table, subject string, bins int) (*Histogram, error) {
	s, err := t.ResolveSubject(subject)
	if err != nil {
		return nil, err
	}
	raw, _ := t.Floats(s.Key())
	h := &Histogram{Subject: s}
	for _, v := range raw {
		if math.IsNaN(v) {
			h.Dropped++
			continue
		}
		h.Values = append(h.Values, v)
	}
	h.Bins = binValues(h.Values, bins)
	return h, nil
}

func binValues(vals []float64, n int) []Bin {
	if len(vals) == 0 {
		return nil
	}
	if n < 1 {
		n = DefaultBins
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}
	span := hi - lo
	edge := func(i int) float64 { return lo + span*float64(i)/float64(n) }
	out := make([]Bin, n)
	for i := range out {
		out[i].Lo = edge(i)
		out[i].Hi = edge(i + 1)
	}
	out[n-1].Hi = hi
	for _, v := range vals {
		out[binIndex(out, v, (v-lo)/span*float64(n))].Count++
	}
	return out
}

// binIndex places v using the estimated position pos, then corrects against the
// stored edges so that bins[i].Lo <= v < bins[i+1].Lo always holds.
func binIndex(bins []Bin, v, pos float64) int {
	n := len(bins)
	i := int(pos)
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	for i > 0 && v < bins[i].Lo {
		i--
	}
	for i+1 < n && v >= bins[i+1].Lo {
		i++
	}
	return i
}

// Title is the chart title derived from the subject label.
func (h *Histogram) Title() string { return "Distribution of " + h.Subject.Label() }

// Render draws the histogram as horizontal bars scaled to width characters.
func (h *Histogram) Render(w io.Writer, width int) error {
	if width <= 0 {
		width = 50
	}
	var b strings.Builder
	b.WriteString(h.Title() + "\n")
	if len(h.Bins) == 0 {
		b.WriteString("(no data)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	peak := 0
	for _, bin := range h.Bins {
		if bin.Count > peak {
			peak = bin.Count
		}
	}
	b.WriteString(fmt.Sprintf("%-17s | Frequency\n", h.Subject.Label()))
	for _, bin := range h.Bins {
		bar := 0
		if peak > 0 {
			bar = int(math.Round(float64(bin.Count) / float64(peak) * float64(width)))
		}
		b.WriteString(fmt.Sprintf("%7.2f - %7.2f | %s %d\n", bin.Lo, bin.Hi, strings.Repeat("#", bar), bin.Count))
	}
	if h.Dropped > 0 {
		b.WriteString(fmt.Sprintf("(%d missing values dropped)\n", h.Dropped))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SavePNG renders the histogram to dir/<subject>_histogram.png and returns the path.
func (h *Histogram) SavePNG(dir string) (string, error) {
	if len(h.Values) == 0 {
		return "", fmt.Errorf("no values to plot for %s", h.Subject.Label())
	}
	p := gplot.New()
	p.Title.Text = h.Title()
	p.X.Label.Text = h.Subject.Label()
	p.Y.Label.Text = "Frequency"

	hist, err := plotter.NewHist(plotter.Values(h.Values), len(h.Bins))
	if err != nil {
		return "", fmt.Errorf("build histogram: %w", err)
	}
	p.Add(hist)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	out := filepath.Join(dir, h.Subject.Key()+"_histogram.png")
	if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
		return "", err
	}
	return out, nil
}

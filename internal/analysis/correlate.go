package analysis

import (
	"math"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across subjects.
type CorrMatrix struct {
	Subjects []dataset.Subject
	Values   [][]float64 // row-major, Values[i][j]
}

// At returns r for a pair of subjects, or NaN if either is absent.
func (m *CorrMatrix) At(a, b dataset.Subject) float64 {
	ia, ib := -1, -1
	for i, s := range m.Subjects {
		if s == a {
			ia = i
		}
		if s == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// Correlate computes pairwise Pearson correlation between every pair of subjects.
// Each pair uses only rows where both values are present.
func Correlate(t *dataset.Table) *CorrMatrix {
	subjects := t.Subjects()
	cols := make([][]float64, len(subjects))
	for i, s := range subjects {
		cols[i], _ = t.Floats(s.Key())
	}
	n := len(subjects)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		mat[a][a] = selfCorrelation(cols[a])
		for b := a + 1; b < n; b++ {
			r := Pearson(cols[a], cols[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Subjects: subjects, Values: mat}
}

// Pearson returns r over the paired observations where neither value is NaN.
// The result is NaN with fewer than two pairs or when either side has zero variance.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	var cnt, sumX, sumY float64
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		cnt++
		sumX += xs[i]
		sumY += ys[i]
	}
	if cnt < 2 {
		return math.NaN()
	}
	mx, my := sumX/cnt, sumY/cnt
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func selfCorrelation(xs []float64) float64 {
	vals := present(xs)
	if len(vals) < 2 {
		return math.NaN()
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return 1
		}
	}
	return math.NaN()
}

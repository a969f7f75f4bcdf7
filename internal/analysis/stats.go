package analysis

import (
	"math"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/aclements/go-moremath/stats"
)

// SubjectStats summarizes one score column over its non-missing values.
type SubjectStats struct {
	Subject dataset.Subject
	Count   int
	Mean    float64
	Min     float64
	Max     float64
	Std     float64
	// NoData is set when the column has no values; Mean/Min/Max are NaN then.
	NoData bool
}

// Describe computes mean, min, max and standard deviation for each subject in the table.
func Describe(t *dataset.Table) []SubjectStats {
	subjects := t.Subjects()
	out := make([]SubjectStats, 0, len(subjects))
	for _, s := range subjects {
		vals, _ := t.Floats(s.Key())
		out = append(out, summarize(s, present(vals)))
	}
	return out
}

func summarize(s dataset.Subject, xs []float64) SubjectStats {
	st := SubjectStats{Subject: s, Count: len(xs)}
	if len(xs) == 0 {
		st.NoData = true
		st.Mean, st.Min, st.Max = math.NaN(), math.NaN(), math.NaN()
		return st
	}
	sample := stats.Sample{Xs: xs}
	st.Mean = sample.Mean()
	st.Min, st.Max = sample.Bounds()
	if len(xs) > 1 {
		st.Std = sample.StdDev()
	}
	return st
}

// present drops NaN (missing) values.
func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

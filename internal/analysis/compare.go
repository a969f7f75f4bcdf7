package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
)

// Group is the subset of rows sharing one value of the compared category.
type Group struct {
	Label string
	Size  int
	// Means is aligned with Comparison.Subjects; NaN when the group has no values for a subject.
	Means []float64
}

// Comparison holds per-group subject means, groups in first-seen order.
type Comparison struct {
	Category string
	Subjects []dataset.Subject
	Groups   []Group
}

// Mean returns a group's mean for a subject.
func (c *Comparison) Mean(g Group, s dataset.Subject) float64 {
	for i, have := range c.Subjects {
		if have == s && i < len(g.Means) {
			return g.Means[i]
		}
	}
	return math.NaN()
}

// CompareGroups partitions rows by the distinct values of the category named by label
// and averages every subject per partition in a single pass.
func CompareGroups(t *dataset.Table, label string) (*Comparison, error) {
	key, err := t.ResolveCategory(label)
	if err != nil {
		return nil, err
	}
	keys, _ := t.Strings(key)
	subjects := t.Subjects()
	cols := make([][]float64, len(subjects))
	for i, s := range subjects {
		cols[i], _ = t.Floats(s.Key())
	}

	type acc struct {
		size int
		sum  []float64
		cnt  []int
	}
	index := map[string]int{}
	var accs []*acc
	var labels []string
	for row, k := range keys {
		gi, ok := index[k]
		if !ok {
			gi = len(accs)
			index[k] = gi
			accs = append(accs, &acc{sum: make([]float64, len(subjects)), cnt: make([]int, len(subjects))})
			labels = append(labels, k)
		}
		a := accs[gi]
		a.size++
		for j, col := range cols {
			if v := col[row]; !math.IsNaN(v) {
				a.sum[j] += v
				a.cnt[j]++
			}
		}
	}

	cmp := &Comparison{Category: key, Subjects: subjects, Groups: make([]Group, len(accs))}
	for gi, a := range accs {
		g := Group{Label: labels[gi], Size: a.size, Means: make([]float64, len(subjects))}
		for j := range subjects {
			if a.cnt[j] == 0 {
				g.Means[j] = math.NaN()
				continue
			}
			g.Means[j] = a.sum[j] / float64(a.cnt[j])
		}
		cmp.Groups[gi] = g
	}
	return cmp, nil
}

// PrepEffect is the test-preparation comparison plus a one-line reading of it.
type PrepEffect struct {
	*Comparison
	Interpretation string
}

const testPrepColumn = "test_preparation_course"

// TestPrepEffect compares subject means between students who completed the
// preparation course and those who did not.
func TestPrepEffect(t *dataset.Table) (*PrepEffect, error) {
	cmp, err := CompareGroups(t, testPrepColumn)
	if err != nil {
		return nil, err
	}
	return &PrepEffect{Comparison: cmp, Interpretation: interpretPrep(cmp)}, nil
}

func interpretPrep(c *Comparison) string {
	var done, none *Group
	for i := range c.Groups {
		switch strings.ToLower(c.Groups[i].Label) {
		case "completed":
			done = &c.Groups[i]
		case "none":
			none = &c.Groups[i]
		}
	}
	if done == nil || none == nil {
		return "Not enough groups to compare completed against none."
	}
	diff := overall(done.Means) - overall(none.Means)
	switch {
	case math.IsNaN(diff):
		return "No scores available to compare."
	case diff > 0:
		return fmt.Sprintf("Students who completed the test preparation course scored %.2f points higher on average.", diff)
	case diff < 0:
		return fmt.Sprintf("Students who completed the test preparation course scored %.2f points lower on average.", -diff)
	default:
		return "Completing the test preparation course made no difference to the average score."
	}
}

// overall averages the defined per-subject means.
func overall(means []float64) float64 {
	var sum float64
	var n int
	for _, m := range means {
		if !math.IsNaN(m) {
			sum += m
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

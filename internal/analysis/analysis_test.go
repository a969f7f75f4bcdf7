package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
)

var studentHeader = []string{"gender", "race/ethnicity", "lunch", "test preparation course", "math score", "reading score", "writing score"}

var studentRows = [][]string{
	{"female", "group B", "standard", "none", "72", "72", "74"},
	{"female", "group C", "standard", "completed", "69", "90", "88"},
	{"female", "group B", "standard", "none", "90", "95", "93"},
	{"male", "group A", "free/reduced", "none", "47", "57", "44"},
	{"male", "group C", "standard", "none", "76", "78", "75"},
	{"female", "group B", "standard", "none", "71", "83", "78"},
	{"female", "group B", "standard", "completed", "88", "95", "92"},
	{"male", "group B", "free/reduced", "none", "41", "43", "39"},
}

func students(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords("students.csv", studentHeader, studentRows)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return tbl
}

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func TestCompareGroupsScenario(t *testing.T) {
	tbl, err := dataset.FromRecords("s", []string{"gender", "math_score"}, [][]string{
		{"female", "70"}, {"female", "90"}, {"male", "50"},
	})
	if err != nil {
		t.Fatal(err)
	}
	cmp, err := CompareGroups(tbl, "gender")
	if err != nil {
		t.Fatalf("CompareGroups: %v", err)
	}
	if len(cmp.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(cmp.Groups))
	}
	if cmp.Groups[0].Label != "female" || cmp.Groups[1].Label != "male" {
		t.Fatalf("group order = %q,%q", cmp.Groups[0].Label, cmp.Groups[1].Label)
	}
	if got := FormatMean(cmp.Mean(cmp.Groups[0], dataset.Math)); got != "80.00" {
		t.Fatalf("female math = %s", got)
	}
	if got := FormatMean(cmp.Mean(cmp.Groups[1], dataset.Math)); got != "50.00" {
		t.Fatalf("male math = %s", got)
	}
}

func TestCompareGroupsPartitionIsExhaustive(t *testing.T) {
	tbl := students(t)
	for _, cat := range []string{"gender", "Race/Ethnicity", "lunch", "test preparation course"} {
		cmp, err := CompareGroups(tbl, cat)
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		total := 0
		seen := map[string]bool{}
		for _, g := range cmp.Groups {
			if seen[g.Label] {
				t.Fatalf("%s: duplicate group %q", cat, g.Label)
			}
			seen[g.Label] = true
			total += g.Size
		}
		if total != tbl.Len() {
			t.Fatalf("%s: group sizes sum to %d, want %d", cat, total, tbl.Len())
		}
	}
}

func TestCompareGroupsFirstSeenOrder(t *testing.T) {
	cmp, err := CompareGroups(students(t), "race_ethnicity")
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, g := range cmp.Groups {
		labels = append(labels, g.Label)
	}
	if strings.Join(labels, ",") != "group B,group C,group A" {
		t.Fatalf("order = %v", labels)
	}
}

func TestCompareGroupsSingleValueEqualsGlobal(t *testing.T) {
	tbl, err := dataset.FromRecords("s", []string{"school", "math score", "reading score"}, [][]string{
		{"north", "60", "70"}, {"north", "80", ""}, {"north", "75", "90"},
	})
	if err != nil {
		t.Fatal(err)
	}
	cmp, err := CompareGroups(tbl, "school")
	if err != nil {
		t.Fatal(err)
	}
	if len(cmp.Groups) != 1 {
		t.Fatalf("groups = %d", len(cmp.Groups))
	}
	for _, st := range Describe(tbl) {
		got := cmp.Mean(cmp.Groups[0], st.Subject)
		if !almostEqual(got, st.Mean, 1e-12) {
			t.Fatalf("%s: group mean %f != global %f", st.Subject, got, st.Mean)
		}
	}
}

func TestCompareGroupsUnknownCategory(t *testing.T) {
	tbl := students(t)
	before := tbl.Record(0)
	cmp, err := CompareGroups(tbl, "star sign")
	var uce *dataset.UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if cmp != nil {
		t.Fatalf("expected no partial output")
	}
	if strings.Join(tbl.Record(0), ",") != strings.Join(before, ",") || tbl.Len() != len(studentRows) {
		t.Fatalf("table changed")
	}
}

func TestDescribe(t *testing.T) {
	st := Describe(students(t))
	if len(st) != 3 {
		t.Fatalf("stats = %d", len(st))
	}
	mathVals := []float64{72, 69, 90, 47, 76, 71, 88, 41}
	m := st[0]
	if m.Subject != dataset.Math || m.Count != 8 || m.Min != 41 || m.Max != 90 {
		t.Fatalf("math stats = %+v", m)
	}
	if !almostEqual(m.Mean, mean(mathVals), 1e-9) {
		t.Fatalf("math mean = %f", m.Mean)
	}
	if m.Std <= 0 {
		t.Fatalf("expected positive std")
	}
}

func TestDescribeEmptyTableIsNoData(t *testing.T) {
	tbl, err := dataset.FromRecords("empty", []string{"gender", "math score"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	st := Describe(tbl)
	if len(st) != 1 || !st[0].NoData || !math.IsNaN(st[0].Mean) {
		t.Fatalf("expected no-data stats, got %+v", st)
	}
	if FormatMean(st[0].Mean) != "no data" {
		t.Fatalf("format = %q", FormatMean(st[0].Mean))
	}
}

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	m := Correlate(students(t))
	n := len(m.Subjects)
	if n != 3 {
		t.Fatalf("subjects = %d", n)
	}
	for i := 0; i < n; i++ {
		if m.Values[i][i] != 1 {
			t.Fatalf("diag[%d] = %f", i, m.Values[i][i])
		}
		for j := 0; j < n; j++ {
			if m.Values[i][j] != m.Values[j][i] {
				t.Fatalf("asymmetric at %d,%d", i, j)
			}
			if m.Values[i][j] < -1 || m.Values[i][j] > 1 {
				t.Fatalf("out of range r=%f", m.Values[i][j])
			}
		}
	}
	if r := m.At(dataset.Reading, dataset.Writing); r < 0.9 {
		t.Fatalf("reading~writing r=%f, expected strong positive", r)
	}
}

func TestPearson(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"inverse", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"skip missing", []float64{1, nan, 2, 3}, []float64{10, 99, 20, 30}, 1},
		{"constant", []float64{5, 5, 5}, []float64{1, 2, 3}, nan},
		{"too few", []float64{1}, []float64{2}, nan},
	}
	for _, c := range cases {
		got := Pearson(c.x, c.y)
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("%s: got %f, want NaN", c.name, got)
			}
			continue
		}
		if !almostEqual(got, c.want, 1e-12) {
			t.Errorf("%s: got %f, want %f", c.name, got, c.want)
		}
	}
}

func TestCorrelateConstantColumnDiagonalNaN(t *testing.T) {
	tbl, err := dataset.FromRecords("c", []string{"math score", "reading score"}, [][]string{
		{"50", "60"}, {"50", "70"}, {"50", "80"},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := Correlate(tbl)
	if !math.IsNaN(m.At(dataset.Math, dataset.Math)) || !math.IsNaN(m.At(dataset.Math, dataset.Reading)) {
		t.Fatalf("expected NaN for constant column: %v", m.Values)
	}
	if m.At(dataset.Reading, dataset.Reading) != 1 {
		t.Fatalf("reading diag = %f", m.At(dataset.Reading, dataset.Reading))
	}
	if FormatCorr(m.At(dataset.Math, dataset.Reading)) != "NaN" {
		t.Fatalf("format NaN")
	}
}

func TestTestPrepEffect(t *testing.T) {
	eff, err := TestPrepEffect(students(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(eff.Groups) != 2 || eff.Groups[0].Label != "none" {
		t.Fatalf("groups = %+v", eff.Groups)
	}
	if !strings.Contains(eff.Interpretation, "higher") {
		t.Fatalf("interpretation = %q", eff.Interpretation)
	}

	noPrep, err := dataset.FromRecords("s", []string{"gender", "math score"}, [][]string{{"female", "70"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := TestPrepEffect(noPrep); err == nil {
		t.Fatalf("expected error without test preparation column")
	}
}

func TestInspect(t *testing.T) {
	info := Inspect(students(t), 5)
	if info.Rows != 8 || len(info.Columns) != 7 || len(info.Head) != 5 {
		t.Fatalf("info = rows %d cols %d head %d", info.Rows, len(info.Columns), len(info.Head))
	}
	if info.Columns[1].Name != "race_ethnicity" || info.Head[0][0] != "female" {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := Inspect(students(t), 50); len(got.Head) != 8 {
		t.Fatalf("head should cap at row count, got %d", len(got.Head))
	}
}

func TestReportMarkdown(t *testing.T) {
	rep := BuildReport(students(t), ReportOptions{SampleRows: 2, GroupBy: []string{"gender", "zodiac"}})
	if rep.ID == "" {
		t.Fatalf("missing report id")
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: students.csv",
		"Rows: 8",
		"- race_ethnicity: categorical",
		"[SCORE STATISTICS]",
		"- Math Score: mean 69.25, min 41, max 90",
		"[CORRELATIONS]",
		"- reading_score ~ writing_score: r=",
		"[GROUP-BY GENDER]",
		"- female (n=5)",
		"[TEST PREPARATION EFFECT]",
		"[HEAD AND SAMPLE ROWS]",
		"[NOTES]",
		`skipped group-by "zodiac"`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestReportMarkdownTruncatesLongCellsOnRunes(t *testing.T) {
	long := strings.Repeat("é", 100)
	tbl, err := dataset.FromRecords("notes.csv", []string{"gender", "comment", "math score"}, [][]string{
		{"female", long, "70"},
	})
	if err != nil {
		t.Fatal(err)
	}
	md := BuildReport(tbl, ReportOptions{SampleRows: 1}).Markdown()
	if !utf8.ValidString(md) {
		t.Fatalf("report is not valid UTF-8")
	}
	if !strings.Contains(md, strings.Repeat("é", 77)+"...") || strings.Contains(md, strings.Repeat("é", 78)) {
		t.Fatalf("long cell not cut to 77 runes:\n%s", md)
	}
}

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a column after load.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column describes one normalized column of a Table.
type Column struct {
	Name    string
	Kind    Kind
	Missing int
}

// Table is the immutable in-memory dataset. Every accessor returns copies.
type Table struct {
	name  string
	cols  []Column
	index map[string]int
	cells [][]string // row-major, trimmed
	nums  map[int][]float64
}

// FromRecords builds a Table from a header and raw rows using default options.
func FromRecords(name string, header []string, rows [][]string) (*Table, error) {
	return build(name, header, rows, Options{})
}

func build(name string, header []string, rows [][]string, opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	t := &Table{
		name:  name,
		cols:  make([]Column, len(header)),
		index: make(map[string]int, len(header)),
		cells: make([][]string, 0, len(rows)),
		nums:  map[int][]float64{},
	}
	for i, h := range header {
		key := NormalizeName(h)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		if prev, dup := t.index[key]; dup {
			return nil, fmt.Errorf("duplicate column %q (headers %d and %d)", key, prev+1, i+1)
		}
		t.index[key] = i
		t.cols[i] = Column{Name: key}
	}
	ncol := len(header)
	for _, rec := range rows {
		row := make([]string, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = strings.TrimSpace(rec[j])
		}
		t.cells = append(t.cells, row)
	}
	// A column is numeric when every value parses and it has at least one value.
	// Score columns stay numeric even when empty so they report "no data".
	for j := range t.cols {
		vals := make([]float64, len(t.cells))
		numeric, seen := true, 0
		for i, row := range t.cells {
			v := row[j]
			if v == "" {
				t.cols[j].Missing++
				vals[i] = math.NaN()
				continue
			}
			seen++
			x, ok := parseNumeric(v, opt.DecimalSeparator)
			if !ok {
				numeric = false
				break
			}
			vals[i] = x
		}
		if numeric && (seen > 0 || isSubjectKey(t.cols[j].Name)) {
			t.cols[j].Kind = KindNumeric
			t.nums[j] = vals
			continue
		}
		t.cols[j].Kind = KindCategorical
		t.cols[j].Missing = 0
		for _, row := range t.cells {
			if row[j] == "" {
				t.cols[j].Missing++
			}
		}
	}
	return t, nil
}

func parseNumeric(s string, decimal rune) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if decimal == ',' {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Name is the base name of the source file.
func (t *Table) Name() string { return t.name }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.cells) }

// Columns returns the columns in declared order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// ColumnNames returns the normalized column names in declared order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by normalized key.
func (t *Table) Column(key string) (Column, bool) {
	i, ok := t.index[key]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Floats returns a copy of a numeric column; missing cells are NaN.
func (t *Table) Floats(key string) ([]float64, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	vals, ok := t.nums[i]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(vals))
	copy(out, vals)
	return out, true
}

// Strings returns a copy of any column as its trimmed text values.
func (t *Table) Strings(key string) ([]string, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.cells))
	for r, row := range t.cells {
		out[r] = row[i]
	}
	return out, true
}

// Record returns a copy of row i in column order.
func (t *Table) Record(i int) []string {
	if i < 0 || i >= len(t.cells) {
		return nil
	}
	out := make([]string, len(t.cells[i]))
	copy(out, t.cells[i])
	return out
}

// Subjects returns the subjects whose score column exists and is numeric.
func (t *Table) Subjects() []Subject {
	var out []Subject
	for _, s := range Subjects() {
		if c, ok := t.Column(s.Key()); ok && c.Kind == KindNumeric {
			out = append(out, s)
		}
	}
	return out
}

// ResolveCategory normalizes a free-text label and checks it names a column.
func (t *Table) ResolveCategory(label string) (string, error) {
	key := NormalizeName(label)
	if _, ok := t.index[key]; !ok || key == "" {
		return "", &UnknownCategoryError{Name: label, Normalized: key, Known: t.CategoryNames()}
	}
	return key, nil
}

// CategoryNames lists the categorical columns, the natural grouping candidates.
func (t *Table) CategoryNames() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindCategorical {
			out = append(out, c.Name)
		}
	}
	return out
}

// ResolveSubject parses a subject name and checks its column is present.
func (t *Table) ResolveSubject(name string) (Subject, error) {
	s, ok := ParseSubject(name)
	if ok {
		for _, have := range t.Subjects() {
			if have == s {
				return s, nil
			}
		}
	}
	known := make([]string, 0, 3)
	for _, have := range t.Subjects() {
		known = append(known, have.Key())
	}
	return 0, &UnknownSubjectError{Name: name, Known: known}
}

func isSubjectKey(key string) bool {
	for _, s := range Subjects() {
		if s.Key() == key {
			return true
		}
	}
	return false
}

package analysis

import "github.com/KaramelBytes/examstat-cli/internal/dataset"

// Info describes the dataset shape and its first rows.
type Info struct {
	Name    string
	Rows    int
	Columns []dataset.Column
	Head    [][]string
}

// Inspect returns the dataset info with up to n head rows.
func Inspect(t *dataset.Table, n int) Info {
	if n < 0 {
		n = 0
	}
	if n > t.Len() {
		n = t.Len()
	}
	info := Info{Name: t.Name(), Rows: t.Len(), Columns: t.Columns(), Head: make([][]string, 0, n)}
	for i := 0; i < n; i++ {
		info.Head = append(info.Head, t.Record(i))
	}
	return info
}

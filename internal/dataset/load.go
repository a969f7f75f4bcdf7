package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the dataset read when nothing else is configured.
const DefaultPath = "StudentsPerformance.csv"

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, it is chosen from the file extension.
	Delimiter rune
	// DecimalSeparator is '.' (default) or ','.
	DecimalSeparator rune
	// SheetName selects an XLSX sheet; when empty SheetIndex (1-based) is used.
	SheetName  string
	SheetIndex int
}

// Load reads a CSV/TSV or XLSX file into a Table with normalized column names.
// Any failure is returned as a *LoadError.
func Load(path string, opt Options) (*Table, error) {
	header, rows, err := readRecords(path, opt)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	t, err := build(filepath.Base(path), header, rows, opt)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

func readRecords(path string, opt Options) ([]string, [][]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readXLSX(path, opt.SheetName, opt.SheetIndex)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty file")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

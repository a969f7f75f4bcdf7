package dataset

import (
	"fmt"
	"strings"
)

// LoadError indicates the dataset could not be read or parsed. It is fatal to a session.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnknownCategoryError indicates a grouping label that does not normalize to a known column.
type UnknownCategoryError struct {
	Name       string
	Normalized string
	Known      []string
}

func (e *UnknownCategoryError) Error() string {
	msg := fmt.Sprintf("unknown category %q", e.Name)
	if e.Normalized != "" && e.Normalized != e.Name {
		msg += fmt.Sprintf(" (as %q)", e.Normalized)
	}
	if len(e.Known) > 0 {
		msg += "; known columns: " + strings.Join(e.Known, ", ")
	}
	return msg
}

// UnknownSubjectError indicates a subject name that is not one of the score columns in the table.
type UnknownSubjectError struct {
	Name  string
	Known []string
}

func (e *UnknownSubjectError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown subject %q", e.Name)
	}
	return fmt.Sprintf("unknown subject %q; use one of: %s", e.Name, strings.Join(e.Known, ", "))
}

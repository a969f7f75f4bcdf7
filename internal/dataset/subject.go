package dataset

import (
	"strings"
	"unicode"
)

// NormalizeName maps a header or user label to a column key:
// trim, lowercase, then spaces and slashes become underscores.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}

// Subject is one of the numeric score columns.
type Subject int

const (
	Math Subject = iota
	Reading
	Writing
)

var subjectKeys = [...]string{
	Math:    "math_score",
	Reading: "reading_score",
	Writing: "writing_score",
}

// Subjects returns every known subject in canonical order.
func Subjects() []Subject { return []Subject{Math, Reading, Writing} }

// Key returns the normalized column name backing the subject.
func (s Subject) Key() string {
	if s < 0 || int(s) >= len(subjectKeys) {
		return ""
	}
	return subjectKeys[s]
}

// Label is the human-readable name: underscores become spaces, words title-cased.
func (s Subject) Label() string { return HumanizeName(s.Key()) }

func (s Subject) String() string { return s.Key() }

// ParseSubject accepts "math", "Math Score" or "math_score" style names.
func ParseSubject(name string) (Subject, bool) {
	n := NormalizeName(name)
	if n == "" {
		return 0, false
	}
	for _, s := range Subjects() {
		if n == s.Key() || n+"_score" == s.Key() {
			return s, true
		}
	}
	return 0, false
}

// HumanizeName turns a column key like "test_preparation_course" into "Test Preparation Course".
func HumanizeName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

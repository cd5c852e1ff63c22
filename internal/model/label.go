package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// LabelRecord is one row of the ground-truth label table.
type LabelRecord struct {
	Filename string
	Label    string
}

// LabelSet maps an image filename to its ground-truth label.
type LabelSet map[string]string

// Lookup returns the label for filename and whether one exists.
func (s LabelSet) Lookup(filename string) (string, bool) {
	label, ok := s[filename]
	if !ok || strings.TrimSpace(label) == "" {
		return "", false
	}
	return label, true
}

// Records returns the set as records. Order is unspecified.
func (s LabelSet) Records() []LabelRecord {
	records := make([]LabelRecord, 0, len(s))
	for filename, label := range s {
		records = append(records, LabelRecord{Filename: filename, Label: label})
	}
	return records
}

// LabelsMatch reports whether two category labels are equal ignoring case.
// No other normalization is applied.
func LabelsMatch(a, b string) bool {
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

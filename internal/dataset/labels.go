package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
)

// Label table columns.
const (
	ColumnFilename = "filename"
	ColumnLabel    = "label"
)

// LabelHeader is the header row of the answer table.
var LabelHeader = []string{ColumnFilename, ColumnLabel}

// LoadLabels reads the answer table at path into a filename to label map.
// Filenames and labels are trimmed. Rows with a blank label are skipped and
// reported through diag. An absent file fails with common.ErrNotFound; a file
// that no encoding can read, or that yields no usable label, fails with
// common.ErrUnreadableFormat.
func LoadLabels(path string, encodings []tabular.Encoding, diag *common.Diagnostics) (model.LabelSet, error) {
	table, err := tabular.ReadTable(path, LabelHeader, encodings)
	if err != nil {
		return nil, err
	}

	labels := make(model.LabelSet, len(table.Rows))
	for _, row := range table.Rows {
		filename := strings.TrimSpace(row.Get(ColumnFilename))
		label := strings.TrimSpace(row.Get(ColumnLabel))
		if filename == "" {
			continue
		}
		if label == "" {
			diag.Warn("Label is empty, fill it in before classifying", "filename", filename, "line", row.Line)
			continue
		}
		labels[filename] = label
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("%s has no usable labels: %w", path, common.ErrUnreadableFormat)
	}

	if table.Encoding != "utf-8-sig" && table.Encoding != "utf-8" {
		diag.Info("Read label table with fallback encoding", "path", path, "encoding", table.Encoding)
	}
	return labels, nil
}

// WriteLabels writes labels to path as an answer table sorted by filename.
func WriteLabels(path string, labels model.LabelSet) error {
	filenames := make([]string, 0, len(labels))
	for filename := range labels {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	rows := make([][]string, 0, len(filenames))
	for _, filename := range filenames {
		rows = append(rows, []string{filename, labels[filename]})
	}
	return tabular.WriteTable(path, LabelHeader, rows)
}

// CheckLabelsFilled reports whether the answer table at path has at least one
// row and no blank labels. It returns the filenames still missing a label.
func CheckLabelsFilled(path string, encodings []tabular.Encoding) (bool, []string, error) {
	table, err := tabular.ReadTable(path, LabelHeader, encodings)
	if err != nil {
		return false, nil, err
	}
	if len(table.Rows) == 0 {
		return false, nil, nil
	}

	var missing []string
	for _, row := range table.Rows {
		if strings.TrimSpace(row.Get(ColumnLabel)) == "" {
			missing = append(missing, strings.TrimSpace(row.Get(ColumnFilename)))
		}
	}
	return len(missing) == 0, missing, nil
}

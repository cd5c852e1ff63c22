package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
)

// Predictions table columns.
const (
	ColumnTrueLabel      = "true_label"
	ColumnPredLabel      = "pred_label"
	ColumnPredConfidence = "pred_confidence"
)

// PredictionHeader is the header row of the predictions table.
var PredictionHeader = []string{ColumnFilename, ColumnTrueLabel, ColumnPredLabel, ColumnPredConfidence}

// SavePredictions writes records to path in the given order.
func SavePredictions(path string, records []model.PredictionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Filename,
			rec.TrueLabel,
			rec.PredLabel,
			strconv.FormatFloat(rec.PredConfidence, 'f', -1, 64),
		})
	}
	if err := tabular.WriteTable(path, PredictionHeader, rows); err != nil {
		return fmt.Errorf("failed to save predictions: %w", err)
	}
	return nil
}

// LoadPredictions reads every row of the predictions table at path, error
// rows included, in file order.
func LoadPredictions(path string, encodings []tabular.Encoding) ([]model.PredictionRecord, string, error) {
	table, err := tabular.ReadTable(path, PredictionHeader, encodings)
	if err != nil {
		return nil, "", err
	}

	records := make([]model.PredictionRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := model.PredictionRecord{
			Filename:  row.Get(ColumnFilename),
			TrueLabel: row.Get(ColumnTrueLabel),
			PredLabel: row.Get(ColumnPredLabel),
		}
		if !rec.IsError() {
			raw := strings.TrimSpace(row.Get(ColumnPredConfidence))
			confidence, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				return nil, "", fmt.Errorf("%s line %d: bad confidence %q: %w", path, row.Line, raw, common.ErrUnreadableFormat)
			}
			rec.PredConfidence = confidence
		}
		records = append(records, rec)
	}
	return records, table.Encoding, nil
}

// Package evaluation scores a predictions table against its ground truth.
package evaluation

import (
	"fmt"
	"sort"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/dataset"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
)

// Loaded is a predictions table ready for scoring.
type Loaded struct {
	Encoding      string
	Records       []model.PredictionRecord
	SkippedErrors int
}

// Load reads the predictions table at path and drops ERROR rows.
//
// A missing file fails with common.ErrNotFound, a table no encoding can
// read or one with only a header fails with common.ErrUnreadableFormat, and
// a table whose every row is ERROR fails with common.ErrNothingToEvaluate.
func Load(path string, encodings []tabular.Encoding) (*Loaded, error) {
	records, encoding, err := dataset.LoadPredictions(path, encodings)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has a header but no prediction rows: %w", path, common.ErrUnreadableFormat)
	}

	loaded := &Loaded{
		Encoding: encoding,
		Records:  make([]model.PredictionRecord, 0, len(records)),
	}
	for _, rec := range records {
		if rec.IsError() {
			loaded.SkippedErrors++
			continue
		}
		loaded.Records = append(loaded.Records, rec)
	}

	if len(loaded.Records) == 0 {
		return nil, fmt.Errorf("all %d predictions in %s are %s: %w",
			loaded.SkippedErrors, path, model.ErrorLabel, common.ErrNothingToEvaluate)
	}
	return loaded, nil
}

// Overall computes accuracy across every record.
func Overall(records []model.PredictionRecord) model.AccuracyReport {
	report := model.AccuracyReport{Total: len(records)}
	for _, rec := range records {
		if rec.IsCorrect() {
			report.Correct++
		}
	}
	report.Accuracy = model.Percent(report.Correct, report.Total)
	return report
}

// PerCategory groups records by their exact true label and sorts the groups
// by descending accuracy. Groups with equal accuracy keep first-seen order.
func PerCategory(records []model.PredictionRecord) []model.CategoryStatistics {
	type bucket struct {
		stats         model.CategoryStatistics
		confidenceSum float64
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		b, ok := buckets[rec.TrueLabel]
		if !ok {
			b = &bucket{stats: model.CategoryStatistics{Label: rec.TrueLabel}}
			buckets[rec.TrueLabel] = b
			order = append(order, rec.TrueLabel)
		}
		b.stats.Total++
		b.confidenceSum += rec.PredConfidence
		if rec.IsCorrect() {
			b.stats.Correct++
		}
	}

	stats := make([]model.CategoryStatistics, 0, len(order))
	for _, label := range order {
		b := buckets[label]
		b.stats.Accuracy = model.Percent(b.stats.Correct, b.stats.Total)
		b.stats.AvgConfidence = b.confidenceSum / float64(b.stats.Total)
		stats = append(stats, b.stats)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Accuracy > stats[j].Accuracy
	})
	return stats
}

// Misclassified returns the incorrect records in their original order.
func Misclassified(records []model.PredictionRecord) []model.MisclassifiedItem {
	var items []model.MisclassifiedItem
	for _, rec := range records {
		if !rec.IsCorrect() {
			items = append(items, model.MisclassifiedItem{Record: rec})
		}
	}
	return items
}

// Evaluate scores records. ERROR rows must already be removed.
func Evaluate(records []model.PredictionRecord) model.Evaluation {
	return model.Evaluation{
		Overall:       Overall(records),
		Categories:    PerCategory(records),
		Misclassified: Misclassified(records),
	}
}

// EvaluateFile loads the table at path and scores it.
func EvaluateFile(path string, encodings []tabular.Encoding) (model.Evaluation, error) {
	loaded, err := Load(path, encodings)
	if err != nil {
		return model.Evaluation{}, err
	}
	eval := Evaluate(loaded.Records)
	eval.SkippedErrors = loaded.SkippedErrors
	return eval, nil
}

package model

// AccuracyReport summarizes how many predictions were correct.
type AccuracyReport struct {
	Total    int
	Correct  int
	Accuracy float64 // percent
}

// Incorrect returns the number of wrong predictions.
func (r AccuracyReport) Incorrect() int {
	return r.Total - r.Correct
}

// CategoryStatistics holds accuracy figures for one ground-truth label.
type CategoryStatistics struct {
	Label         string
	Total         int
	Correct       int
	Accuracy      float64 // percent
	AvgConfidence float64 // fraction in [0,1]
}

// MisclassifiedItem is a prediction that disagrees with its ground truth.
type MisclassifiedItem struct {
	Record PredictionRecord
}

// Evaluation is the full result of scoring one predictions table.
type Evaluation struct {
	Categories    []CategoryStatistics
	Misclassified []MisclassifiedItem
	Overall       AccuracyReport
	SkippedErrors int
}

// Percent returns part/total*100, or 0 when total is zero.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

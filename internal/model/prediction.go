package model

// ErrorLabel is written in place of a category when classification failed.
const ErrorLabel = "ERROR"

// Outcome is the result of classifying a single image.
// Exactly one of Category or Err is meaningful.
type Outcome struct {
	Err        error
	Category   string
	Confidence float64
}

// Succeeded builds a successful outcome.
func Succeeded(category string, confidence float64) Outcome {
	return Outcome{Category: category, Confidence: ClampConfidence(confidence)}
}

// Failed builds a failed outcome.
func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// Failed reports whether classification failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// PredictionRecord is one row of the predictions table.
type PredictionRecord struct {
	Filename       string
	TrueLabel      string
	PredLabel      string
	PredConfidence float64
}

// NewPredictionRecord collapses an outcome into a table row. Failures become
// ErrorLabel with zero confidence.
func NewPredictionRecord(filename, trueLabel string, outcome Outcome) PredictionRecord {
	if outcome.Failed() {
		return PredictionRecord{
			Filename:       filename,
			TrueLabel:      trueLabel,
			PredLabel:      ErrorLabel,
			PredConfidence: 0,
		}
	}
	return PredictionRecord{
		Filename:       filename,
		TrueLabel:      trueLabel,
		PredLabel:      outcome.Category,
		PredConfidence: outcome.Confidence,
	}
}

// IsError reports whether the record stands for a failed classification.
func (r PredictionRecord) IsError() bool {
	return r.PredLabel == ErrorLabel
}

// IsCorrect reports whether the prediction matches the ground truth.
func (r PredictionRecord) IsCorrect() bool {
	return !r.IsError() && LabelsMatch(r.TrueLabel, r.PredLabel)
}

// ClampConfidence keeps a confidence score inside [0,1].
func ClampConfidence(confidence float64) float64 {
	switch {
	case confidence != confidence: // NaN
		return 0
	case confidence < 0:
		return 0
	case confidence > 1:
		return 1
	default:
		return confidence
	}
}

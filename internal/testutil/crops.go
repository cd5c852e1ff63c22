package testutil

import "github.com/aiprojectops/score-files/internal/model"

// CropName is a ground-truth label used across tests.
type CropName string

// String returns the label text.
func (c CropName) String() string {
	return string(c)
}

// Crop labels as they appear in hand-written answer tables.
const (
	Apple      CropName = "사과"
	Strawberry CropName = "딸기"
	Grape      CropName = "포도"
	Tomato     CropName = "토마토"
	Pepper     CropName = "고추"
	Pear       CropName = "배"
)

// Record builds a prediction row.
func Record(filename string, truth, predicted CropName, confidence float64) model.PredictionRecord {
	return model.PredictionRecord{
		Filename:       filename,
		TrueLabel:      truth.String(),
		PredLabel:      predicted.String(),
		PredConfidence: confidence,
	}
}

// ErrorRecord builds a prediction row for a failed classification.
func ErrorRecord(filename string, truth CropName) model.PredictionRecord {
	return model.PredictionRecord{
		Filename:  filename,
		TrueLabel: truth.String(),
		PredLabel: model.ErrorLabel,
	}
}

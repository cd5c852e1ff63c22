package engine

import (
	"context"

	"github.com/aiprojectops/score-files/internal/model"
)

// ImageClassifier defines the contract for identifying the crop in one image.
// Implementations report failure through the Outcome, never by panicking.
type ImageClassifier interface {
	Classify(ctx context.Context, ref model.ImageRef) model.Outcome
}

// ProgressReporter receives per-image progress during a batch run.
type ProgressReporter interface {
	Start(total int)
	ImageSkipped(index int, filename string)
	ImageClassified(index int, record model.PredictionRecord)
	Finish(summary *BatchSummary)
}

// NopProgress discards all progress events.
type NopProgress struct{}

// Start implements ProgressReporter.
func (NopProgress) Start(int) {}

// ImageSkipped implements ProgressReporter.
func (NopProgress) ImageSkipped(int, string) {}

// ImageClassified implements ProgressReporter.
func (NopProgress) ImageClassified(int, model.PredictionRecord) {}

// Finish implements ProgressReporter.
func (NopProgress) Finish(*BatchSummary) {}

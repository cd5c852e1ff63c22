package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/dataset"
	"github.com/aiprojectops/score-files/internal/model"
)

// BatchOptions configures a batch classification run.
type BatchOptions struct {
	Progress        ProgressReporter
	Logger          *slog.Logger
	PredictionsPath string
	Extensions      []string
}

// BatchSummary contains statistics about the batch run.
type BatchSummary struct {
	Err             error
	PredictionsPath string
	Records         []model.PredictionRecord
	Total           int
	Classified      int
	Correct         int
	Failed          int
	NoLabel         int
	ProcessingTime  time.Duration
	Written         bool
}

// BatchClassifier runs every labeled image through an ImageClassifier, one
// at a time, and writes the predictions table once at the end.
type BatchClassifier struct {
	classifier ImageClassifier
	progress   ProgressReporter
	logger     *slog.Logger
	outPath    string
	extensions []string
}

// NewBatchClassifier creates a batch driver around classifier.
func NewBatchClassifier(classifier ImageClassifier, opts BatchOptions) *BatchClassifier {
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = dataset.BatchExtensions
	}
	return &BatchClassifier{
		classifier: classifier,
		progress:   progress,
		logger:     logger,
		outPath:    opts.PredictionsPath,
		extensions: extensions,
	}
}

// Run classifies the images in dir against labels.
//
// A missing directory or one without eligible images fails with
// common.ErrNoImages. Images without a label are skipped and counted. When
// no record was produced the summary carries common.ErrNothingProcessed and
// nothing is written. Cancellation is checked between images; a canceled
// run returns ctx.Err() and writes nothing.
func (b *BatchClassifier) Run(ctx context.Context, dir string, labels model.LabelSet) (*BatchSummary, error) {
	startTime := time.Now()

	images, err := dataset.ScanImages(dir, b.extensions)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{
		Total:           len(images),
		PredictionsPath: b.outPath,
		Records:         make([]model.PredictionRecord, 0, len(images)),
	}

	b.logger.Info("Starting batch classification",
		"images", len(images),
		"labels", len(labels),
		"dir", dir)
	b.progress.Start(len(images))

	for i, ref := range images {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("Batch classification canceled",
				"processed", i,
				"remaining", len(images)-i)
			return summary, fmt.Errorf("batch canceled: %w", err)
		}

		trueLabel, ok := labels.Lookup(ref.Filename)
		if !ok {
			summary.NoLabel++
			b.logger.Warn("No label for image, skipping", "file", ref.Filename)
			b.progress.ImageSkipped(i, ref.Filename)
			continue
		}

		outcome := b.classifier.Classify(ctx, ref)
		record := model.NewPredictionRecord(ref.Filename, trueLabel, outcome)
		switch {
		case outcome.Failed():
			summary.Failed++
			b.logger.Warn("Image recorded as ERROR",
				"file", ref.Filename,
				"error", outcome.Err)
		case record.IsCorrect():
			summary.Correct++
		}
		summary.Classified++
		summary.Records = append(summary.Records, record)
		b.progress.ImageClassified(i, record)
	}

	summary.ProcessingTime = time.Since(startTime)

	if len(summary.Records) == 0 {
		summary.Err = common.NewUserErrorWithHint(
			"No images were classified",
			"Check that the label table lists the filenames in the image directory",
			common.ErrNothingProcessed)
		b.progress.Finish(summary)
		return summary, nil
	}

	if err := dataset.SavePredictions(b.outPath, summary.Records); err != nil {
		return summary, fmt.Errorf("failed to save predictions: %w", err)
	}
	summary.Written = true

	b.logger.Info("Batch classification complete",
		"classified", summary.Classified,
		"failed", summary.Failed,
		"no_label", summary.NoLabel,
		"path", b.outPath,
		"duration", summary.ProcessingTime)
	b.progress.Finish(summary)
	return summary, nil
}

// Canceled reports whether err came from a canceled batch.
func Canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

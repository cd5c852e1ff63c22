package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aiprojectops/score-files/internal/cli"
	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/dataset"
	"github.com/aiprojectops/score-files/internal/engine"
	"github.com/aiprojectops/score-files/internal/evaluation"
	"github.com/aiprojectops/score-files/internal/tabular"
)

// classifierFactory builds the image classifier for a classify stage.
type classifierFactory func(ctx context.Context, settings *config.Settings, logger *slog.Logger) (engine.ImageClassifier, error)

// pipeline runs the stages of one cropeval invocation.
type pipeline struct {
	settings      *config.Settings
	out           io.Writer
	logger        *slog.Logger
	diag          *common.Diagnostics
	newClassifier classifierFactory
	encodings     []tabular.Encoding
	showProgress  bool
	showBar       bool
}

func newPipeline(settings *config.Settings, out io.Writer, factory classifierFactory) (*pipeline, error) {
	encodings, err := tabular.ResolveEncodings(settings.Encodings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	logger := slog.Default().With("run_id", uuid.NewString())
	return &pipeline{
		settings:      settings,
		out:           out,
		logger:        logger,
		diag:          common.NewDiagnostics(logger),
		newClassifier: factory,
		encodings:     encodings,
		showProgress:  true,
		showBar:       cli.IsTerminal(out),
	}, nil
}

func (p *pipeline) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.logger.Warn("Failed to write output", "error", err)
	}
}

// template writes the answer table listing every image.
func (p *pipeline) template(merge bool) (*dataset.TemplateResult, error) {
	result, err := dataset.GenerateTemplate(p.settings.Paths.Images, p.settings.Paths.Answers, dataset.TemplateOptions{
		Encodings: p.encodings,
		Merge:     merge,
	}, p.diag)
	if err != nil {
		return nil, err
	}

	p.printf("%s\n", cli.FormatSuccess(fmt.Sprintf("Answer table written to %s (%d images)", result.Path, len(result.Images))))
	if merge {
		p.printf("%s\n", cli.FormatInfo(fmt.Sprintf("Kept %d existing rows, added %d new images", result.Preserved, len(result.Added))))
	}
	if result.Overwritten {
		p.printf("%s\n", cli.FormatWarning("The previous answer table was replaced"))
	}
	p.printf("%s\n", cli.FormatHint("Open "+result.Path+" and fill in the label column for every image"))
	return result, nil
}

// classify runs the batch classifier over every labeled image.
func (p *pipeline) classify(ctx context.Context) (*engine.BatchSummary, error) {
	labels, err := dataset.LoadLabels(p.settings.Paths.Answers, p.encodings, p.diag)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewUserErrorWithHint("Answer table not found", "run 'cropeval template' and fill in the labels first", err)
		}
		return nil, err
	}

	classifier, err := p.newClassifier(ctx, p.settings, p.logger)
	if err != nil {
		return nil, err
	}

	var progress engine.ProgressReporter = engine.NopProgress{}
	if p.showProgress {
		progress = cli.NewProgressPrinter(p.out, p.showBar)
	}

	summary, err := engine.NewBatchClassifier(classifier, engine.BatchOptions{
		PredictionsPath: p.settings.Paths.Predictions,
		Progress:        progress,
		Logger:          p.logger,
	}).Run(ctx, p.settings.Paths.Images, labels)
	if err != nil {
		return summary, err
	}
	if summary.Err != nil {
		return summary, summary.Err
	}
	return summary, nil
}

// evaluate scores the predictions table and prints the report.
func (p *pipeline) evaluate() error {
	eval, err := evaluation.EvaluateFile(p.settings.Paths.Predictions, p.encodings)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserErrorWithHint("Predictions table not found", "run 'cropeval classify' first", err)
		}
		return err
	}
	return evaluation.Render(p.out, eval)
}

// run executes template, label check, classify and evaluate in order,
// stopping with guidance whenever a prerequisite is missing.
func (p *pipeline) run(ctx context.Context) error {
	answers := p.settings.Paths.Answers

	if !config.FileExists(answers) {
		p.printf("%s\n", cli.FormatTitle("Step 1: answer template"))
		if _, err := p.template(false); err != nil {
			return err
		}
		p.printf("\n%s\n", cli.FormatWarning("Fill in the answer table, save it, then run 'cropeval run' again"))
		return nil
	}

	filled, missing, err := dataset.CheckLabelsFilled(answers, p.encodings)
	if err != nil {
		return err
	}
	if !filled {
		p.printf("%s\n", cli.FormatWarning("The answer table is not filled in yet: "+answers))
		if len(missing) > 0 {
			p.printf("%s\n", cli.SubtleStyle.Render("  missing labels: "+summarizeNames(missing, 5)))
		}
		p.printf("%s\n", cli.FormatHint("Enter a label for every image, save the file, then run 'cropeval run' again"))
		return nil
	}

	p.printf("%s\n", cli.FormatTitle("Step 2: classification"))
	if _, err := p.classify(ctx); err != nil {
		return err
	}

	p.printf("\n%s\n", cli.FormatTitle("Step 3: evaluation"))
	if err := p.evaluate(); err != nil {
		return err
	}

	p.printf("\n%s\n", cli.FormatSuccess("All steps complete"))
	p.printf("  answers    : %s\n  predictions: %s\n", answers, p.settings.Paths.Predictions)
	return nil
}

func summarizeNames(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:limit], ", "), len(names)-limit)
}

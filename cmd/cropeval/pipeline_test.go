package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/dataset"
	"github.com/aiprojectops/score-files/internal/engine"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
	"github.com/aiprojectops/score-files/internal/testutil"
)

type fixture struct {
	ws         *testutil.Workspace
	settings   *config.Settings
	classifier *engine.MockClassifier
	out        *bytes.Buffer
	pipeline   *pipeline
}

func newFixture(t *testing.T, outcomes map[string]model.Outcome, images ...string) *fixture {
	t.Helper()
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: images})
	settings := &config.Settings{
		Paths: config.Paths{
			Images:      ws.ImageDir,
			Answers:     ws.AnswersPath,
			Predictions: ws.PredictionsPath,
		},
		Encodings: tabular.DefaultEncodings(),
	}

	f := &fixture{
		ws:         ws,
		settings:   settings,
		classifier: engine.NewMockClassifier(outcomes),
		out:        &bytes.Buffer{},
	}
	p, err := newPipeline(settings, f.out, func(context.Context, *config.Settings, *slog.Logger) (engine.ImageClassifier, error) {
		return f.classifier, nil
	})
	require.NoError(t, err)
	p.showProgress = false
	f.pipeline = p
	return f
}

func TestRun_CreatesTemplateAndStops(t *testing.T) {
	f := newFixture(t, nil, "b.jpg", "a.png")

	require.NoError(t, f.pipeline.run(context.Background()))

	assert.True(t, config.FileExists(f.settings.Paths.Answers))
	assert.False(t, config.FileExists(f.settings.Paths.Predictions))
	assert.Empty(t, f.classifier.Calls())
	assert.Contains(t, f.out.String(), "Fill in the answer table")

	filled, missing, err := dataset.CheckLabelsFilled(f.settings.Paths.Answers, nil)
	require.NoError(t, err)
	assert.False(t, filled)
	assert.Equal(t, []string{"a.png", "b.jpg"}, missing)
}

func TestRun_StopsWhenLabelsMissing(t *testing.T) {
	f := newFixture(t, nil, "a.jpg", "b.jpg")
	_, err := f.pipeline.template(false)
	require.NoError(t, err)

	require.NoError(t, f.pipeline.run(context.Background()))
	assert.Empty(t, f.classifier.Calls())
	assert.Contains(t, f.out.String(), "not filled in yet")
	assert.Contains(t, f.out.String(), "a.jpg, b.jpg")
}

func TestRun_ClassifiesAndEvaluates(t *testing.T) {
	f := newFixture(t, map[string]model.Outcome{
		"a.jpg": model.Succeeded("Apple", 0.9),
		"b.jpg": model.Succeeded("grape", 0.5),
	}, "a.jpg", "b.jpg", "c.jpg")
	f.ws.WriteLabels(model.LabelSet{"a.jpg": "apple", "b.jpg": "grape", "c.jpg": "pear"})

	require.NoError(t, f.pipeline.run(context.Background()))

	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, f.classifier.Calls())
	records := f.ws.MustLoadPredictions()
	require.Len(t, records, 3)
	assert.True(t, records[2].IsError())

	out := f.out.String()
	assert.Contains(t, out, "Overall accuracy")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Skipped 1 ERROR rows")
	assert.Contains(t, out, "All steps complete")
}

func TestClassify_MissingAnswers(t *testing.T) {
	f := newFixture(t, nil, "a.jpg")

	_, err := f.pipeline.classify(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.True(t, common.IsStageFatal(err))

	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.Hint, "cropeval template")
}

func TestClassify_FactoryErrorIsReturned(t *testing.T) {
	f := newFixture(t, nil, "a.jpg")
	f.ws.WriteLabels(model.LabelSet{"a.jpg": "사과"})
	f.pipeline.newClassifier = func(context.Context, *config.Settings, *slog.Logger) (engine.ImageClassifier, error) {
		return nil, common.NewUserError("no key", common.ErrMissingConfig)
	}

	_, err := f.pipeline.classify(context.Background())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
	assert.False(t, common.IsStageFatal(err))
}

func TestClassify_NothingProcessed(t *testing.T) {
	f := newFixture(t, nil, "a.jpg")
	f.ws.WriteLabels(model.LabelSet{"zzz.jpg": "사과"})

	summary, err := f.pipeline.classify(context.Background())
	assert.ErrorIs(t, err, common.ErrNothingProcessed)
	require.NotNil(t, summary)
	assert.False(t, summary.Written)
}

func TestEvaluate_MissingPredictions(t *testing.T) {
	f := newFixture(t, nil)

	err := f.pipeline.evaluate()
	assert.ErrorIs(t, err, common.ErrNotFound)

	var buf bytes.Buffer
	assert.NoError(t, finishStage(&buf, err))
	assert.Contains(t, buf.String(), "Predictions table not found")
	assert.Contains(t, buf.String(), "cropeval classify")
}

func TestTemplate_Merge(t *testing.T) {
	f := newFixture(t, nil, "a.jpg", "b.jpg")
	f.ws.WriteLabels(model.LabelSet{"a.jpg": "사과"})

	result, err := f.pipeline.template(true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Preserved)
	assert.Equal(t, []string{"b.jpg"}, result.Added)

	diag := common.NewDiagnostics(nil)
	labels, err := dataset.LoadLabels(f.settings.Paths.Answers, nil, diag)
	require.NoError(t, err)
	assert.Equal(t, model.LabelSet{"a.jpg": "사과"}, labels)
	assert.Len(t, diag.Warnings(), 1)
}

func TestFinishStage(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, finishStage(&buf, nil))
	assert.NoError(t, finishStage(&buf, context.Canceled))
	assert.NoError(t, finishStage(&buf, common.ErrNoImages))

	configErr := common.NewUserError("bad provider", common.ErrInvalidConfig)
	assert.Equal(t, configErr, finishStage(&buf, configErr))
}

func TestSummarizeNames(t *testing.T) {
	assert.Equal(t, "a, b", summarizeNames([]string{"a", "b"}, 5))
	assert.Equal(t, "a, b and 2 more", summarizeNames([]string{"a", "b", "c", "d"}, 2))
}

func TestNewPipeline_ProgressBarOnlyOnTerminal(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.pipeline.showBar)
}

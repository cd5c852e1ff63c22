package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
	"github.com/aiprojectops/score-files/internal/testutil"
)

func TestBatchClassifier_Run(t *testing.T) {
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{
		Images: []string{"c.png", "a.jpg", "b.JPEG", "notes.txt", "d.jpg"},
	})

	labels := model.LabelSet{
		"a.jpg":  "사과",
		"b.JPEG": "딸기",
		"c.png":  "포도",
	}
	classifier := NewMockClassifier(map[string]model.Outcome{
		"a.jpg":  model.Succeeded("사과", 0.95),
		"b.JPEG": model.Succeeded("토마토", 0.4),
	})
	progress := &MockProgress{}

	summary, err := NewBatchClassifier(classifier, BatchOptions{
		PredictionsPath: ws.PredictionsPath,
		Progress:        progress,
	}).Run(context.Background(), ws.ImageDir, labels)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Classified)
	assert.Equal(t, 1, summary.Correct)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.NoLabel)
	assert.True(t, summary.Written)
	assert.NoError(t, summary.Err)

	// sorted order, unlabeled image never reaches the classifier
	assert.Equal(t, []string{"a.jpg", "b.JPEG", "c.png"}, classifier.Calls())
	assert.True(t, progress.Started)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, []string{"d.jpg"}, progress.Skipped)
	assert.Len(t, progress.Classified, 3)
	assert.True(t, progress.Finished)

	assert.Equal(t, []model.PredictionRecord{
		testutil.Record("a.jpg", testutil.Apple, testutil.Apple, 0.95),
		testutil.Record("b.JPEG", testutil.Strawberry, testutil.Tomato, 0.4),
		testutil.ErrorRecord("c.png", testutil.Grape),
	}, ws.MustLoadPredictions())

	raw, err := os.ReadFile(ws.PredictionsPath)
	require.NoError(t, err)
	assert.True(t, tabular.HasBOM(raw))
}

func TestBatchClassifier_AllFailuresStillWritten(t *testing.T) {
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: []string{"x.jpg"}})

	summary, err := NewBatchClassifier(NewMockClassifier(nil), BatchOptions{PredictionsPath: ws.PredictionsPath}).
		Run(context.Background(), ws.ImageDir, model.LabelSet{"x.jpg": "사과"})
	require.NoError(t, err)
	assert.True(t, summary.Written)
	assert.Equal(t, 1, summary.Failed)

	records := ws.MustLoadPredictions()
	require.Len(t, records, 1)
	assert.True(t, records[0].IsError())
}

func TestBatchClassifier_NoImages(t *testing.T) {
	root := t.TempDir()
	classifier := NewMockClassifier(nil)
	batch := NewBatchClassifier(classifier, BatchOptions{PredictionsPath: filepath.Join(root, "p.csv")})

	_, err := batch.Run(context.Background(), filepath.Join(root, "missing"), model.LabelSet{"a.jpg": "사과"})
	assert.ErrorIs(t, err, common.ErrNoImages)

	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: []string{"readme.md"}})
	_, err = batch.Run(context.Background(), ws.ImageDir, model.LabelSet{"a.jpg": "사과"})
	assert.ErrorIs(t, err, common.ErrNoImages)
	assert.Empty(t, classifier.Calls())
}

func TestBatchClassifier_NothingLabeled(t *testing.T) {
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: []string{"a.jpg", "b.jpg"}})

	summary, err := NewBatchClassifier(NewMockClassifier(nil), BatchOptions{PredictionsPath: ws.PredictionsPath}).
		Run(context.Background(), ws.ImageDir, model.LabelSet{"other.jpg": "사과"})
	require.NoError(t, err)
	assert.False(t, summary.Written)
	assert.Equal(t, 2, summary.NoLabel)
	assert.ErrorIs(t, summary.Err, common.ErrNothingProcessed)
	assert.False(t, ws.Exists(ws.PredictionsPath))
}

func TestBatchClassifier_Canceled(t *testing.T) {
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: []string{"a.jpg", "b.jpg", "c.jpg"}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	classifier := NewMockClassifier(map[string]model.Outcome{
		"a.jpg": model.Succeeded("사과", 0.9),
		"b.jpg": model.Succeeded("사과", 0.9),
		"c.jpg": model.Succeeded("사과", 0.9),
	})
	classifier.OnCall(func(ref model.ImageRef) {
		if ref.Filename == "a.jpg" {
			cancel()
		}
	})
	labels := model.LabelSet{"a.jpg": "사과", "b.jpg": "사과", "c.jpg": "사과"}

	summary, err := NewBatchClassifier(classifier, BatchOptions{PredictionsPath: ws.PredictionsPath}).Run(ctx, ws.ImageDir, labels)
	require.Error(t, err)
	assert.True(t, Canceled(err))
	assert.False(t, summary.Written)
	assert.Equal(t, []string{"a.jpg"}, classifier.Calls())
	assert.False(t, ws.Exists(ws.PredictionsPath))
}

func TestBatchClassifier_CustomExtensions(t *testing.T) {
	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{Images: []string{"a.jpg", "b.bmp"}})

	classifier := NewMockClassifier(map[string]model.Outcome{"b.bmp": model.Succeeded("배", 0.7)})
	summary, err := NewBatchClassifier(classifier, BatchOptions{
		PredictionsPath: ws.PredictionsPath,
		Extensions:      []string{".bmp"},
	}).Run(context.Background(), ws.ImageDir, model.LabelSet{"a.jpg": "사과", "b.bmp": "배"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []string{"b.bmp"}, classifier.Calls())
}

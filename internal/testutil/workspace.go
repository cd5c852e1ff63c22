// Package testutil provides fixtures for tests that need an image directory
// and answer or predictions tables on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aiprojectops/score-files/internal/dataset"
	"github.com/aiprojectops/score-files/internal/model"
)

// Workspace is a temporary project layout: an image directory plus the
// default answer and predictions paths under data/.
type Workspace struct {
	t               *testing.T
	Root            string
	ImageDir        string
	AnswersPath     string
	PredictionsPath string
}

// WorkspaceOptions configures SetupWorkspace.
type WorkspaceOptions struct {
	// Labels is written as the answer table when non-empty.
	Labels model.LabelSet
	// Images are created in the image directory as small placeholder files.
	Images []string
	// SkipImageDir leaves the image directory uncreated.
	SkipImageDir bool
}

// SetupWorkspace creates a workspace inside t.TempDir.
//
// Example:
//
//	ws := testutil.SetupWorkspace(t, testutil.WorkspaceOptions{
//		Images: []string{"a.jpg", "b.png"},
//		Labels: model.LabelSet{"a.jpg": testutil.Apple.String()},
//	})
func SetupWorkspace(t *testing.T, opts WorkspaceOptions) *Workspace {
	t.Helper()

	root := t.TempDir()
	ws := &Workspace{
		t:               t,
		Root:            root,
		ImageDir:        filepath.Join(root, "img"),
		AnswersPath:     filepath.Join(root, "data", "answer.csv"),
		PredictionsPath: filepath.Join(root, "data", "predictions.csv"),
	}

	if !opts.SkipImageDir {
		if err := os.MkdirAll(ws.ImageDir, 0o750); err != nil {
			t.Fatalf("failed to create image directory: %v", err)
		}
	}
	ws.AddImages(opts.Images...)
	if len(opts.Labels) > 0 {
		ws.WriteLabels(opts.Labels)
	}
	return ws
}

// AddImages creates placeholder image files.
func (w *Workspace) AddImages(names ...string) {
	w.t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(w.ImageDir, name), placeholderImage, 0o600); err != nil {
			w.t.Fatalf("failed to create image %q: %v", name, err)
		}
	}
}

// WriteLabels replaces the answer table.
func (w *Workspace) WriteLabels(labels model.LabelSet) {
	w.t.Helper()
	if err := dataset.WriteLabels(w.AnswersPath, labels); err != nil {
		w.t.Fatalf("failed to write labels: %v", err)
	}
}

// WritePredictions replaces the predictions table.
func (w *Workspace) WritePredictions(records []model.PredictionRecord) {
	w.t.Helper()
	if err := dataset.SavePredictions(w.PredictionsPath, records); err != nil {
		w.t.Fatalf("failed to write predictions: %v", err)
	}
}

// WriteFile writes raw bytes to a path relative to the workspace root.
func (w *Workspace) WriteFile(rel string, data []byte) string {
	w.t.Helper()
	path := filepath.Join(w.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		w.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		w.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustLoadPredictions reads the predictions table or fails the test.
func (w *Workspace) MustLoadPredictions() []model.PredictionRecord {
	w.t.Helper()
	records, _, err := dataset.LoadPredictions(w.PredictionsPath, nil)
	if err != nil {
		w.t.Fatalf("failed to load predictions: %v", err)
	}
	return records
}

// Exists reports whether path exists.
func (w *Workspace) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// placeholderImage is a PNG signature, enough for content sniffing.
var placeholderImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

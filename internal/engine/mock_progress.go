package engine

import (
	"sync"

	"github.com/aiprojectops/score-files/internal/model"
)

// MockProgress is a test implementation of ProgressReporter that records
// every event it receives.
type MockProgress struct {
	Summary    *BatchSummary
	Skipped    []string
	Classified []model.PredictionRecord
	Total      int
	Started    bool
	Finished   bool
	mu         sync.Mutex
}

// Start implements ProgressReporter.
func (m *MockProgress) Start(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = true
	m.Total = total
}

// ImageSkipped implements ProgressReporter.
func (m *MockProgress) ImageSkipped(_ int, filename string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped = append(m.Skipped, filename)
}

// ImageClassified implements ProgressReporter.
func (m *MockProgress) ImageClassified(_ int, record model.PredictionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Classified = append(m.Classified, record)
}

// Finish implements ProgressReporter.
func (m *MockProgress) Finish(summary *BatchSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finished = true
	m.Summary = summary
}

package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
)

// MockClassifier is a test implementation of the ImageClassifier interface.
// It returns preset outcomes keyed by filename and records every call.
type MockClassifier struct {
	outcomes map[string]model.Outcome
	onCall   func(ref model.ImageRef)
	calls    []model.ImageRef
	mu       sync.Mutex
}

// NewMockClassifier creates a mock that answers from outcomes. Filenames
// without a preset outcome fail with common.ErrAdapterFailure.
func NewMockClassifier(outcomes map[string]model.Outcome) *MockClassifier {
	if outcomes == nil {
		outcomes = make(map[string]model.Outcome)
	}
	return &MockClassifier{outcomes: outcomes}
}

// OnCall registers a hook invoked before each classification.
func (m *MockClassifier) OnCall(fn func(ref model.ImageRef)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCall = fn
}

// Classify returns the preset outcome for ref.Filename.
func (m *MockClassifier) Classify(_ context.Context, ref model.ImageRef) model.Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, ref)
	hook := m.onCall
	outcome, ok := m.outcomes[ref.Filename]
	m.mu.Unlock()

	if hook != nil {
		hook(ref)
	}
	if !ok {
		return model.Failed(fmt.Errorf("%w: no preset outcome for %s", common.ErrAdapterFailure, ref.Filename))
	}
	return outcome
}

// Calls returns the filenames classified so far, in call order.
func (m *MockClassifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.calls))
	for i, ref := range m.calls {
		names[i] = ref.Filename
	}
	return names
}

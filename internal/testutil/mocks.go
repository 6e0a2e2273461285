// Package testutil provides shared mocks for the evaluation and design
// loop tests.
package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// MockPredictor is a testify mock of models.Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPredictor) RequiredFeatures() []string {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]string)
	}
	return nil
}

func (m *MockPredictor) Predict(features map[string]float64) (float64, error) {
	args := m.Called(features)
	return args.Get(0).(float64), args.Error(1)
}

// ScriptedStrategy replays a fixed sequence of compositions and records
// every Observe call. When the script runs out it repeats the last
// composition.
type ScriptedStrategy struct {
	Script []materials.Composition

	mu       sync.Mutex
	next     int
	observed []pareto.Entry
}

func (s *ScriptedStrategy) Name() string { return "scripted" }

func (s *ScriptedStrategy) Next() (materials.Composition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.next
	if idx >= len(s.Script) {
		idx = len(s.Script) - 1
	}
	s.next++
	return s.Script[idx], nil
}

func (s *ScriptedStrategy) Observe(entry pareto.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = append(s.observed, entry)
}

// Observed returns a copy of the entries fed back so far.
func (s *ScriptedStrategy) Observed() []pareto.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pareto.Entry, len(s.observed))
	copy(out, s.observed)
	return out
}

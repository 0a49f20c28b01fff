package testing

import (
	"context"
	"sync"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/config"
)

// MockRunner is a shared mock action runner. It records every action and
// returns the result configured for its kind.
type MockRunner struct {
	mu      sync.Mutex
	calls   []config.Action
	results map[config.ActionKind]actions.Result
}

// NewMockRunner creates a MockRunner whose actions all succeed.
func NewMockRunner() *MockRunner {
	return &MockRunner{results: map[config.ActionKind]actions.Result{}}
}

// WithResult sets the result returned for kind.
func (m *MockRunner) WithResult(kind config.ActionKind, res actions.Result) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[kind] = res
	return m
}

// Run implements the engine's action runner.
func (m *MockRunner) Run(_ context.Context, a config.Action) actions.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, a)
	res := m.results[a.Kind]
	res.Kind = a.Kind
	return res
}

// Calls returns the actions run so far.
func (m *MockRunner) Calls() []config.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]config.Action{}, m.calls...)
}

// Kinds returns the kinds of the actions run so far.
func (m *MockRunner) Kinds() []config.ActionKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]config.ActionKind, 0, len(m.calls))
	for _, a := range m.calls {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

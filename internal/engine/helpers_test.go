package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/require"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/config"
	modtest "github.com/imamik/modsetup/internal/testing"
)

// fakeRunner records actions and returns canned results per kind.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []config.Action
	results map[config.ActionKind]actions.Result
	gate    chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, a config.Action) actions.Result {
	f.mu.Lock()
	f.calls = append(f.calls, a)
	res := f.results[a.Kind]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	res.Kind = a.Kind
	return res
}

func (f *fakeRunner) Calls() []config.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]config.Action{}, f.calls...)
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Event(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Of(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	engine *Engine
	events *recorder
	done   chan error
	cancel context.CancelFunc
}

func start(t *testing.T, steps []config.Step, runner ActionRunner, opts ...Option) *harness {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{
		WithSettleDelay(time.Millisecond),
		WithLogger(testr.New(t)),
		WithObserver(rec),
	}, opts...)

	e, err := New(steps, runner, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(modtest.TestContext(t))
	h := &harness{engine: e, events: rec, done: make(chan error, 1), cancel: cancel}
	go func() {
		h.done <- e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) waitFor(t *testing.T, cond func(Snapshot) bool) {
	t.Helper()
	modtest.WaitFor(t, 3*time.Second, func() bool {
		return cond(h.engine.Snapshot())
	}, "engine snapshot")
}

func (h *harness) waitIndex(t *testing.T, index int) {
	t.Helper()
	h.waitFor(t, func(s Snapshot) bool { return !s.Busy && !s.Completed && s.Index == index })
}

func (h *harness) waitDone(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		// keep the cleanup receive from blocking
		h.done <- err
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop")
		return nil
	}
}

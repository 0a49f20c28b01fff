package actions

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/modsetup/internal/config"
)

// Runner executes actions. It is safe to reuse across actions but runs one
// action at a time per call.
type Runner struct {
	baseDir       string
	elevator      Elevator
	deleteRetries int
	retryDelay    time.Duration
	log           logr.Logger

	// swapped in tests
	remove func(string) error
}

// Option configures a Runner.
type Option func(*Runner)

// NewRunner creates a Runner with the default delete policy of ten retries
// one second apart.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		elevator:      SystemElevator{},
		deleteRetries: 10,
		retryDelay:    time.Second,
		log:           logr.Discard(),
		remove:        os.RemoveAll,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithBaseDir sets the directory relative action paths resolve against.
func WithBaseDir(dir string) Option {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithElevator replaces the platform elevator.
func WithElevator(e Elevator) Option {
	return func(r *Runner) {
		r.elevator = e
	}
}

// WithDeletePolicy sets how often a failed delete is retried and the pause
// between attempts.
func WithDeletePolicy(retries int, delay time.Duration) Option {
	return func(r *Runner) {
		if retries < 0 {
			retries = 0
		}
		r.deleteRetries = retries
		r.retryDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// Run executes a single action and blocks until it is done. Faults never
// panic or escape as a bare error; they are carried in the Result.
func (r *Runner) Run(ctx context.Context, a config.Action) Result {
	log := r.log.WithValues("kind", a.Kind)

	switch a.Kind {
	case config.KindElevateSelf:
		return r.elevate()
	case config.KindLaunchProcess:
		return r.launch(log, a)
	case config.KindCopyPaths:
		return r.copyPaths(ctx, log, a, false)
	case config.KindMovePaths:
		return r.copyPaths(ctx, log, a, true)
	case config.KindDeletePaths:
		return r.deletePaths(ctx, log, a)
	case config.KindJumpToStep:
		return Result{
			Kind:     a.Kind,
			ExitCode: -1,
			Err:      &ActionFault{Kind: a.Kind, Err: fmt.Errorf("jumps are handled by the sequencer")},
		}
	default:
		log.V(1).Info("no handler for action kind")
		return Result{Kind: a.Kind, Skipped: true, ExitCode: -1}
	}
}

func (r *Runner) elevate() Result {
	res := Result{Kind: config.KindElevateSelf, ExitCode: -1}
	elevated, err := r.elevator.IsElevated()
	if err != nil {
		res.Err = &ActionFault{Kind: res.Kind, Err: err}
		return res
	}
	res.Restart = !elevated
	return res
}

// Relaunch starts the tool again with elevation.
func (r *Runner) Relaunch(args []string) error {
	return r.elevator.Relaunch(args)
}

func (r *Runner) resolve(p string) string {
	return config.ResolvePath(r.baseDir, p)
}

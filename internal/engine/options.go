package engine

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/modsetup/internal/config"
)

// Hook is called by the engine at fixed points. A returned error is
// reported and otherwise ignored.
type Hook func(ctx context.Context) error

// Option configures an Engine.
type Option func(*Engine)

// WithSettleDelay sets the pause before each action and before the end of
// an action list. Zero disables the pause and negative values count as zero.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d < 0 {
			d = 0
		}
		e.settleDelay = d
	}
}

// WithFaultPolicy sets what happens after an action fault.
func WithFaultPolicy(p config.FaultPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithObserver sets the diagnostics observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the logger for engine internals.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithBaseDir sets the directory content paths resolve against.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = dir
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}

// WithBeforeTransition registers a hook run before every step transition.
func WithBeforeTransition(h Hook) Option {
	return func(e *Engine) {
		e.beforeTransition = h
	}
}

// WithOnComplete registers a hook run once the sequence completes.
func WithOnComplete(h Hook) Option {
	return func(e *Engine) {
		e.onComplete = h
	}
}

// WithMetrics enables recording into Registry.
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		e.enableMetrics = enabled
	}
}

// Package tui provides a Bubble Tea-based terminal UI for a setup run.
package tui

import "github.com/imamik/modsetup/internal/engine"

// SnapshotMsg carries the latest engine state.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// DiagnosticMsg carries an engine event worth showing to the user.
type DiagnosticMsg struct {
	Event engine.Event
}

// TickMsg is sent periodically to animate the spinner.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the engine stopped. Err is what Run returned.
type DoneMsg struct{ Err error }

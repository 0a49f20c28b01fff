package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/modsetup/internal/engine"
)

// Engine is the part of the engine the TUI drives.
type Engine interface {
	Run(ctx context.Context) error
	Send(i engine.Intent)
	Snapshot() engine.Snapshot
	OnUpdate(fn func(engine.Snapshot))
}

// Diagnostics is an engine observer that buffers events for the TUI.
// Events are dropped when the buffer is full.
type Diagnostics struct {
	ch chan engine.Event
}

// NewDiagnostics creates a Diagnostics observer.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{ch: make(chan engine.Event, 64)}
}

// Event implements engine.Observer. Only events a user can act on are
// kept.
func (d *Diagnostics) Event(ev engine.Event) {
	if !ev.Failure() && ev.Type != engine.EventActionSkipped {
		return
	}
	select {
	case d.ch <- ev:
	default:
	}
}

// RunTUI drives eng behind a Bubble Tea screen. It returns what the engine
// returned: nil on completion, ErrRestartRequested for an elevation
// relaunch, or context.Canceled when the user quit.
func RunTUI(ctx context.Context, eng Engine, diag *Diagnostics, title string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(title, eng.Snapshot(), eng.Send)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	eng.OnUpdate(func(s engine.Snapshot) {
		p.Send(SnapshotMsg{Snapshot: s})
	})

	if diag != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-diag.ch:
					p.Send(DiagnosticMsg{Event: ev})
				}
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		err := eng.Run(ctx)
		errCh <- err
		p.Send(DoneMsg{Err: err})
	}()

	_, err := p.Run()
	cancel()
	engineErr := <-errCh

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return engineErr
}

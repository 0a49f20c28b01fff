package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/engine"
	"github.com/imamik/modsetup/internal/ui/prompt"
)

// captureOutput captures stdout during f.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// saveAndRestoreFactories saves and restores the run factory functions.
func saveAndRestoreFactories(t *testing.T) {
	origIsTerminal := isTerminal
	origNewElevator := newElevator
	origRelaunchArgs := relaunchArgs
	origRunTUI := runTUI
	origRunPrompt := runPrompt
	origNewReporter := newReporter
	origFileExists := fileExists
	origSaveDocument := saveDocument
	origWriteDemoFiles := writeDemoFiles
	origCheckRequirements := checkRequirements

	t.Cleanup(func() {
		isTerminal = origIsTerminal
		newElevator = origNewElevator
		relaunchArgs = origRelaunchArgs
		runTUI = origRunTUI
		runPrompt = origRunPrompt
		newReporter = origNewReporter
		fileExists = origFileExists
		saveDocument = origSaveDocument
		writeDemoFiles = origWriteDemoFiles
		checkRequirements = origCheckRequirements
	})
}

// fakeElevator reports a fixed elevation state and records relaunches.
type fakeElevator struct {
	mu         sync.Mutex
	elevated   bool
	relaunch   error
	relaunched [][]string
}

func (f *fakeElevator) IsElevated() (bool, error) {
	return f.elevated, nil
}

func (f *fakeElevator) Relaunch(args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relaunched = append(f.relaunched, args)
	return f.relaunch
}

var _ actions.Elevator = (*fakeElevator)(nil)

// scriptPrompt makes run use the prompt with scripted answers and a
// reporter writing to reports.
func scriptPrompt(t *testing.T, reports *bytes.Buffer, answers ...string) {
	t.Helper()
	isTerminal = func() bool { return false }
	newReporter = func() engine.Observer { return prompt.NewReporter(reports) }
	runPrompt = func(ctx context.Context, eng prompt.Engine) error {
		remaining := append([]string{}, answers...)
		ask := func(_ context.Context, _, _ string, _ []huh.Option[string]) (string, error) {
			if len(remaining) == 0 {
				return "", errors.New("no scripted answer left")
			}
			next := remaining[0]
			remaining = remaining[1:]
			return next, nil
		}
		return prompt.New(prompt.WithOutput(io.Discard), prompt.WithAsker(ask)).Run(ctx, eng)
	}
}

// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/config"
	"github.com/imamik/modsetup/internal/engine"
	"github.com/imamik/modsetup/internal/hostfix"
	"github.com/imamik/modsetup/internal/markers"
	"github.com/imamik/modsetup/internal/ui/prompt"
	"github.com/imamik/modsetup/internal/ui/tui"
)

// Interfaces accepted by --ui.
const (
	UIAuto   = "auto"
	UITUI    = "tui"
	UIPrompt = "prompt"
)

// tuiLogFile receives the logs in TUI mode unless --log-file is set.
const tuiLogFile = "modsetup.log"

// RunOptions are the flags of the run command.
type RunOptions struct {
	GlobalOptions
	UI            string
	SettleDelay   time.Duration
	DeleteRetries int
	RetryDelay    time.Duration
	FaultPolicy   string
	NoHostFixup   bool
	MetricsFile   string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// isTerminal reports whether stdout is a terminal.
	isTerminal = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// newElevator returns the privilege checker used by ElevateSelf.
	newElevator = func() actions.Elevator {
		return actions.SystemElevator{}
	}

	// relaunchArgs returns the arguments the elevated instance is started with.
	relaunchArgs = func() []string {
		return os.Args[1:]
	}

	// runTUI drives the engine with the full-screen interface.
	runTUI = tui.RunTUI

	// runPrompt drives the engine with line-oriented forms.
	runPrompt = func(ctx context.Context, eng prompt.Engine) error {
		return prompt.New(prompt.WithAccessible(!isTerminal())).Run(ctx, eng)
	}

	// newReporter prints diagnostics between prompts.
	newReporter = func() engine.Observer {
		return prompt.NewReporter(os.Stdout)
	}
)

// Run loads the setup document and walks the user through its steps.
//
// The workflow:
//  1. Loads the document, writing the demo document when it is missing
//  2. Applies the Mod Organizer fix-up and writes the in-progress marker
//  3. Drives the engine with the TUI or the prompt until it stops
//  4. On completion the complete marker is written; on an elevation
//     request the tool is relaunched elevated; otherwise the in-progress
//     marker is removed
func Run(ctx context.Context, opts RunOptions) error {
	workDir, err := opts.workDir()
	if err != nil {
		return err
	}

	mode, err := selectUI(opts.UI, isTerminal())
	if err != nil {
		return err
	}

	logPath := opts.LogFile
	if logPath == "" && mode == UITUI {
		logPath = filepath.Join(workDir, tuiLogFile)
	}
	logOut, closeLog, err := openLogOutput(logPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	log, err := newLogger(opts.LogLevel, logOut)
	if err != nil {
		return err
	}

	policy, err := config.ParseFaultPolicy(opts.FaultPolicy)
	if err != nil {
		return err
	}
	if opts.SettleDelay < 0 {
		return fmt.Errorf("invalid --settle-delay %s (must be zero or positive)", opts.SettleDelay)
	}
	if opts.SettleDelay == 0 {
		log.Info("settle delay disabled, actions start back to back")
	}

	docPath, err := opts.documentPath(workDir)
	if err != nil {
		return err
	}
	doc, err := config.Load(docPath)
	if err != nil {
		return err
	}
	if doc.Synthesized {
		log.Info("setup document not found, wrote the demo document", "path", docPath)
	}
	for _, w := range config.Validate(doc.Steps) {
		log.Info("setup document warning", "path", docPath, "warning", w.String())
	}

	runID := uuid.NewString()
	log = log.WithValues("runID", runID)

	store := markers.New(workDir)
	fixup := hostfix.ModOrganizer{Dir: workDir, Log: log.WithName("hostfix")}
	if !opts.NoHostFixup {
		if err := fixup.Apply(ctx); err != nil {
			log.Error(err, "host fix-up failed")
		}
	}
	if err := store.Begin(runID); err != nil {
		return err
	}

	runner := actions.NewRunner(
		actions.WithBaseDir(workDir),
		actions.WithElevator(newElevator()),
		actions.WithDeletePolicy(opts.DeleteRetries, opts.RetryDelay),
		actions.WithLogger(log.WithName("actions")),
	)

	observers := engine.MultiObserver{
		engine.NewLogObserver(log.WithName("engine")).WithFields(map[string]string{"document": docPath}),
	}
	var diag *tui.Diagnostics
	if mode == UITUI {
		diag = tui.NewDiagnostics()
		observers = append(observers, diag)
	} else {
		observers = append(observers, newReporter())
	}

	completeErr := make(chan error, 1)
	engOpts := []engine.Option{
		engine.WithSettleDelay(opts.SettleDelay),
		engine.WithFaultPolicy(policy),
		engine.WithObserver(observers),
		engine.WithLogger(log.WithName("engine")),
		engine.WithBaseDir(workDir),
		engine.WithRunID(runID),
		engine.WithOnComplete(func(context.Context) error {
			err := store.Complete()
			completeErr <- err
			return err
		}),
		engine.WithMetrics(opts.MetricsFile != ""),
	}
	if !opts.NoHostFixup {
		engOpts = append(engOpts, engine.WithBeforeTransition(fixup.Apply))
	}

	eng, err := engine.New(doc.Steps, runner, engOpts...)
	if err != nil {
		_ = store.Clear()
		return err
	}

	var runErr error
	if mode == UITUI {
		runErr = runTUI(ctx, eng, diag, "modsetup: "+filepath.Base(docPath))
	} else {
		runErr = runPrompt(ctx, eng)
	}

	if opts.MetricsFile != "" {
		if err := engine.WriteMetrics(opts.MetricsFile); err != nil {
			log.Error(err, "failed to write metrics", "path", opts.MetricsFile)
		}
	}

	if runErr == nil {
		select {
		case err := <-completeErr:
			if err != nil {
				runErr = fmt.Errorf("failed to record completion: %w", err)
			}
		default:
		}
	}

	return finishRun(log, store, runner, runErr)
}

// finishRun settles the markers after the engine stopped. A run that
// completed but could not write its complete marker ends like a failed
// run, so the in-progress marker does not outlive it.
func finishRun(log logr.Logger, store *markers.Store, runner *actions.Runner, runErr error) error {
	switch {
	case runErr == nil:
		log.Info("setup completed")
		return nil

	case errors.Is(runErr, engine.ErrRestartRequested):
		// the elevated instance rewrites the in-progress marker
		log.Info("relaunching with elevated privileges")
		if err := runner.Relaunch(relaunchArgs()); err != nil {
			_ = store.Clear()
			return fmt.Errorf("failed to relaunch with elevated privileges: %w", err)
		}
		return nil

	case errors.Is(runErr, context.Canceled):
		log.Info("setup cancelled")
		return store.Clear()

	default:
		_ = store.Clear()
		return runErr
	}
}

// selectUI resolves --ui against whether a terminal is attached.
func selectUI(ui string, terminal bool) (string, error) {
	switch ui {
	case "", UIAuto:
		if terminal {
			return UITUI, nil
		}
		return UIPrompt, nil
	case UITUI, UIPrompt:
		return ui, nil
	default:
		return "", fmt.Errorf("invalid --ui %q (expected auto, tui or prompt)", ui)
	}
}

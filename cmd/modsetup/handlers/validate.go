package handlers

import (
	"fmt"
	"os"

	"github.com/imamik/modsetup/internal/config"
	"github.com/imamik/modsetup/internal/util/prerequisites"
)

// checkRequirements checks referenced programs and files (for testing injection).
var checkRequirements = prerequisites.Check

// Validate loads the setup document and prints its warnings and the
// programs and files it refers to that do not exist yet. Neither fails the
// command: an earlier step may install what a later one needs. Unlike run it
// never writes the demo document.
func Validate(global GlobalOptions) error {
	workDir, err := global.workDir()
	if err != nil {
		return err
	}
	path, err := global.documentPath(workDir)
	if err != nil {
		return err
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return &config.ConfigError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}
	steps, err := config.LoadFromBytes(data, config.FormatFor(path))
	if err != nil {
		return &config.ConfigError{Path: path, Err: err}
	}

	warnings := config.Validate(steps)
	fmt.Printf("%s: %d step(s), %d warning(s)\n", path, len(steps), len(warnings))
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}

	results := checkRequirements(workDir, prerequisites.FromSteps(steps))
	for _, req := range results.Missing {
		label := "not found"
		if req.Required {
			label = "not found (required)"
		}
		fmt.Printf("  - step %d: %s %s %s, %s\n", req.Step, req.Kind, req.Name, label, req.Description)
	}
	if len(results.Missing) > 0 {
		fmt.Printf("%d referenced path(s) missing in %s\n", len(results.Missing), workDir)
	}
	return nil
}

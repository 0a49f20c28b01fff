package handlers

import (
	"fmt"
	"os"

	"github.com/imamik/modsetup/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// saveDocument writes a setup document.
	saveDocument = config.Save

	// writeDemoFiles writes the demo pages and sample files.
	writeDemoFiles = config.WriteDemoFiles
)

// Init writes the demo setup document, and optionally its files, so a user
// has a working document to start from.
func Init(global GlobalOptions, outputPath string, force, assets bool) error {
	workDir, err := global.workDir()
	if err != nil {
		return err
	}

	path := outputPath
	if path == "" {
		if path, err = global.documentPath(workDir); err != nil {
			return err
		}
	}

	if fileExists(path) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := saveDocument(config.DemoSteps(), path); err != nil {
		return fmt.Errorf("failed to write demo document: %w", err)
	}
	if assets {
		if err := writeDemoFiles(workDir, force); err != nil {
			return fmt.Errorf("failed to write demo files: %w", err)
		}
	}

	printInitSuccess(path, workDir, assets)
	return nil
}

func printInitSuccess(path, workDir string, assets bool) {
	fmt.Println()
	fmt.Println("Demo setup document saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", path)
	if assets {
		fmt.Printf("  Demo files: %s\n", workDir)
	}
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Edit %s to describe your own steps\n", path)
	fmt.Println("  2. Check it:")
	fmt.Println("     modsetup validate")
	fmt.Println("  3. Run it:")
	fmt.Println("     modsetup run")
	fmt.Println()
}

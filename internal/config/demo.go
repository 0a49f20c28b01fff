package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Demo document paths, relative to the work dir.
const (
	demoDir         = "Demo"
	demoCopySource  = "Demo/DemoCopyDir"
	demoCopyFile    = "Demo/DemoCopyDir/DemoCopyFile.txt"
	demoCopyOutput  = "Demo/CopyOutput"
	demoMoveOutput  = "Demo/MoveOutput"
	demoScratchFile = "Demo/CopyOutput/DemoCopyFile.txt"
)

// DemoSteps returns the document synthesized on first run. It walks through
// every action kind: elevation, a process launch, a yes/no branch that can
// jump back to the start, file copy/move/delete and a closing page.
func DemoSteps() []Step {
	return []Step{
		{
			ContentPath: demoDir + "/Step_01.md",
			Content: "## Welcome\n" +
				"This demo walks through every kind of setup action.\n\n" +
				"Press `Continue` to restart the tool with administrative privileges, " +
				"or `Skip` to stay unprivileged.",
			Actions:   []Action{{Kind: KindElevateSelf}},
			Skippable: true,
		},
		{
			ContentPath: demoDir + "/Step_02.md",
			Content: "## Run an application\n" +
				"`Continue` launches the demo application and waits for it to exit.",
			Actions: []Action{{
				Kind:    KindLaunchProcess,
				AppPath: demoApplication(),
				AppArgs: "-demo",
				Wait:    true,
			}},
		},
		{
			ContentPath: demoDir + "/Step_03.md",
			Content: "## Did it work?\n" +
				"Answer `No` to carry on, or `Yes` to go back to the first step.",
			IsBranch:   true,
			YesActions: []Action{{Kind: KindJumpToStep, StepIndex: Int(0)}},
		},
		{
			ContentPath: demoDir + "/Step_04.md",
			Content: "## Files\n" +
				"`Continue` copies the demo files, moves the copy and cleans up.",
			Actions: []Action{
				{
					Kind: KindCopyPaths,
					PathMap: PathMap{
						{Source: demoCopyFile, Destination: demoScratchFile},
						{Source: demoCopySource, Destination: demoCopyOutput + "/DemoCopyDir"},
					},
				},
				{
					Kind: KindMovePaths,
					PathMap: PathMap{
						{Source: demoCopyOutput + "/DemoCopyDir", Destination: demoMoveOutput + "/DemoCopyDir"},
					},
				},
				{
					Kind:  KindDeletePaths,
					Paths: []string{demoScratchFile},
				},
			},
			Skippable: true,
		},
		{
			Content: "## Setup Complete\n" +
				"The demo setup is now complete, click `Continue` to close the setup tool.",
		},
	}
}

func demoApplication() string {
	if runtime.GOOS == "windows" {
		return demoDir + "/TestApplication.bat"
	}
	return demoDir + "/test_application.sh"
}

// DemoFile is a file the demo document refers to.
type DemoFile struct {
	Path    string
	Content string
	Mode    os.FileMode
}

// DemoFiles returns the pages and sample files used by the demo document.
func DemoFiles() []DemoFile {
	var files []DemoFile
	for _, s := range DemoSteps() {
		if s.ContentPath != "" {
			files = append(files, DemoFile{Path: s.ContentPath, Content: s.Content + "\n", Mode: 0o644})
		}
	}

	app := DemoFile{Path: demoApplication(), Mode: 0o755}
	if runtime.GOOS == "windows" {
		app.Content = "@echo off\r\necho Demo application started with %*\r\npause\r\n"
	} else {
		app.Content = "#!/bin/sh\necho \"Demo application started with $*\"\n"
	}

	return append(files,
		app,
		DemoFile{Path: demoCopyFile, Content: "This file is copied by the demo setup.\n", Mode: 0o644},
	)
}

// WriteDemoFiles writes DemoFiles below dir. Existing files are kept
// unless overwrite is set.
func WriteDemoFiles(dir string, overwrite bool) error {
	for _, f := range DemoFiles() {
		path := ResolvePath(dir, f.Path)
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), f.Mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return nil
}

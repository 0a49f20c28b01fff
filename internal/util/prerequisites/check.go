// Package prerequisites checks that the programs and files a setup document
// refers to are present before the setup runs.
package prerequisites

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/imamik/modsetup/internal/config"
)

// Kind is what a requirement names.
type Kind string

const (
	// KindProgram is a program started by LaunchProcess.
	KindProgram Kind = "program"
	// KindFile is a source file or directory, or a content page.
	KindFile Kind = "file"
)

// Requirement is something a step needs at run time.
type Requirement struct {
	// Step is the index of the step that refers to Name.
	Step int

	Kind Kind

	// Name is the path as written in the document.
	Name string

	// Required is set when the step cannot work without it. Missing copy
	// sources and content pages are tolerated at run time.
	Required bool

	// Description explains what the step uses it for.
	Description string
}

// CheckResult contains the result of checking a single requirement.
type CheckResult struct {
	Requirement Requirement
	Found       bool
	Path        string
}

// CheckResults contains the results of checking multiple requirements.
type CheckResults struct {
	Results []CheckResult
	Missing []Requirement
}

// HasErrors returns true if any required entry is missing.
func (r *CheckResults) HasErrors() bool {
	for _, req := range r.Missing {
		if req.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required entry is missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, req := range r.Missing {
		if req.Required {
			missing = append(missing, fmt.Sprintf("%s (step %d)", req.Name, req.Step))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required programs: %s", strings.Join(missing, ", "))
}

// FromSteps lists what the steps refer to, in document order. Duplicates
// within a step are listed once.
func FromSteps(steps []config.Step) []Requirement {
	var reqs []Requirement

	for i, s := range steps {
		seen := map[string]bool{}
		add := func(r Requirement) {
			key := string(r.Kind) + "\x00" + r.Name
			if r.Name == "" || seen[key] {
				return
			}
			seen[key] = true
			r.Step = i
			reqs = append(reqs, r)
		}

		if s.ContentPath != "" {
			add(Requirement{Kind: KindFile, Name: s.ContentPath, Description: "content page"})
		}
		for _, list := range [][]config.Action{s.Actions, s.YesActions, s.NoActions} {
			for _, a := range list {
				switch a.Kind {
				case config.KindLaunchProcess:
					add(Requirement{Kind: KindProgram, Name: a.AppPath, Required: true, Description: "launched by LaunchProcess"})
				case config.KindCopyPaths, config.KindMovePaths:
					for _, src := range a.PathMap.Sources() {
						add(Requirement{Kind: KindFile, Name: src, Description: "source of " + a.Kind.String()})
					}
				}
			}
		}
	}

	return reqs
}

// Check verifies the requirements against baseDir.
func Check(baseDir string, reqs []Requirement) *CheckResults {
	results := &CheckResults{}

	for _, req := range reqs {
		result := CheckResult{Requirement: req}

		switch req.Kind {
		case KindProgram:
			result.Path, result.Found = LookProgram(baseDir, req.Name)
		default:
			result.Path = config.ResolvePath(baseDir, req.Name)
			_, err := os.Stat(result.Path)
			result.Found = err == nil
		}
		if !result.Found {
			results.Missing = append(results.Missing, req)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// LookProgram finds a program the way LaunchProcess starts it: a file
// relative to baseDir wins over a PATH lookup. When neither exists the
// baseDir-relative path is returned with found false.
func LookProgram(baseDir, name string) (path string, found bool) {
	local := config.ResolvePath(baseDir, name)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, true
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, true
	}
	return local, false
}

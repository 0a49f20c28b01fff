package actions

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/go-logr/logr"
	"github.com/mattn/go-shellwords"

	"github.com/imamik/modsetup/internal/config"
	"github.com/imamik/modsetup/internal/util/prerequisites"
)

// launch starts a.AppPath with a.AppArgs split like a shell would. With Wait
// set it blocks until the process exits. A non-zero exit status is recorded
// but is not a fault.
func (r *Runner) launch(log logr.Logger, a config.Action) Result {
	res := Result{Kind: a.Kind, ExitCode: -1}

	fault := func(err error) Result {
		res.Err = &ActionFault{Kind: a.Kind, Path: a.AppPath, Err: err}
		return res
	}

	if a.AppPath == "" {
		return fault(errors.New("appPath is empty"))
	}

	args, err := shellwords.Parse(a.AppArgs)
	if err != nil {
		return fault(fmt.Errorf("failed to parse appArgs %q: %w", a.AppArgs, err))
	}

	path := r.lookPath(a.AppPath)
	// #nosec G204
	cmd := exec.Command(path, args...)
	cmd.Dir = r.baseDir

	if err := cmd.Start(); err != nil {
		return fault(fmt.Errorf("failed to start: %w", err))
	}
	log.Info("process started", "path", path, "pid", cmd.Process.Pid, "wait", a.Wait)

	if !a.Wait {
		go func() {
			_ = cmd.Wait()
		}()
		return res
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return fault(fmt.Errorf("failed waiting for process: %w", err))
	}
	log.Info("process exited", "path", path, "exitCode", res.ExitCode)
	return res
}

// lookPath prefers a file relative to the base dir and falls back to PATH.
func (r *Runner) lookPath(appPath string) string {
	path, _ := prerequisites.LookProgram(r.baseDir, appPath)
	return path
}

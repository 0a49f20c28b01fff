//go:build windows

package actions

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process token is elevated.
func (SystemElevator) IsElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}

// Relaunch starts the executable through the "runas" verb, which shows the
// UAC prompt. The caller exits once the new process has been started.
func (SystemElevator) Relaunch(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	quoted := make([]string, 0, len(args))
	for _, a := range args {
		quoted = append(quoted, windows.EscapeArg(a))
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	params, err := windows.UTF16PtrFromString(strings.Join(quoted, " "))
	if err != nil {
		return err
	}
	dir, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return err
	}

	if err := windows.ShellExecute(0, verb, file, params, dir, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("failed to relaunch elevated: %w", err)
	}
	return nil
}

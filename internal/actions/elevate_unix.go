//go:build unix

package actions

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// IsElevated reports whether the effective user is root.
func (SystemElevator) IsElevated() (bool, error) {
	return unix.Geteuid() == 0, nil
}

// Relaunch replaces the process with the same executable run through sudo.
func (SystemElevator) Relaunch(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	sudo, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("%w: sudo not found: %v", ErrElevationUnsupported, err)
	}

	argv := append([]string{"sudo", "--preserve-env", exe}, args...)
	// #nosec G204
	if err := unix.Exec(sudo, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec %s: %w", sudo, err)
	}
	return nil
}

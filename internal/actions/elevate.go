package actions

import "errors"

// ErrElevationUnsupported is returned where the platform offers no way to
// relaunch with administrative privilege.
var ErrElevationUnsupported = errors.New("elevation is not supported on this platform")

// Elevator checks and acquires administrative privilege.
type Elevator interface {
	// IsElevated reports whether the current process is privileged.
	IsElevated() (bool, error)
	// Relaunch starts the current executable again with elevation and the
	// given arguments. On success the caller must exit; on unix systems the
	// call replaces the process and does not return.
	Relaunch(args []string) error
}

// SystemElevator is the Elevator of the running platform.
type SystemElevator struct{}

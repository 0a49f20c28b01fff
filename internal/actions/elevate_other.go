//go:build !unix && !windows

package actions

// IsElevated always reports false.
func (SystemElevator) IsElevated() (bool, error) {
	return false, ErrElevationUnsupported
}

// Relaunch is not available.
func (SystemElevator) Relaunch([]string) error {
	return ErrElevationUnsupported
}

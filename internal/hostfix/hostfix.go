// Package hostfix applies a compatibility fix-up to a Mod Organizer
// installation so that it does not report a false python plugin failure
// after setup touched its files.
package hostfix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

const (
	// IniFile is the Mod Organizer configuration file.
	IniFile = "ModOrganizer.ini"
	// LoadCheckFile is left behind by a plugin load that did not finish.
	LoadCheckFile = "plugin_loadcheck.tmp"
)

var (
	proxyEnabled  = []byte(`Python%20Proxy\tryInit=true`)
	proxyDisabled = []byte(`Python%20Proxy\tryInit=false`)
)

// ModOrganizer fixes up the Mod Organizer files in Dir.
type ModOrganizer struct {
	Dir string
	Log logr.Logger
}

// Apply deletes the stale load check flag and turns off the python proxy
// init retry. Missing files are ignored. Both parts are attempted; their
// errors are joined.
func (m ModOrganizer) Apply(_ context.Context) error {
	log := m.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	var errs []error

	flag := filepath.Join(m.Dir, LoadCheckFile)
	if err := os.Remove(flag); err == nil {
		log.V(1).Info("removed stale load check flag", "path", flag)
	} else if !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", flag, err))
	}

	ini := filepath.Join(m.Dir, IniFile)
	changed, err := disableProxyInit(ini)
	if err != nil {
		errs = append(errs, err)
	} else if changed {
		log.Info("disabled python proxy init retry", "path", ini)
	}

	return errors.Join(errs...)
}

// disableProxyInit rewrites every line that enables the proxy init retry.
// The file is only written when a line changed; line endings are kept.
func disableProxyInit(path string) (bool, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := bytes.SplitAfter(data, []byte("\n"))
	changed := false
	for i, line := range lines {
		if !bytes.Contains(line, proxyEnabled) {
			continue
		}
		ending := line[len(bytes.TrimRight(line, "\r\n")):]
		lines[i] = append(append([]byte{}, proxyDisabled...), ending...)
		changed = true
	}
	if !changed {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, bytes.Join(lines, nil), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

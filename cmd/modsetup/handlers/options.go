package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/modsetup/internal/config"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	WorkDir    string
	LogLevel   string
	LogFile    string
}

// workDir returns the absolute work dir, the current directory by default.
func (o GlobalOptions) workDir() (string, error) {
	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	dir, err := filepath.Abs(o.WorkDir)
	if err != nil {
		return "", fmt.Errorf("invalid work dir %s: %w", o.WorkDir, err)
	}
	return dir, nil
}

// documentPath returns the setup document path. A relative --config is
// taken relative to the current directory.
func (o GlobalOptions) documentPath(workDir string) (string, error) {
	if o.ConfigPath == "" {
		return config.DefaultDocumentPath(workDir), nil
	}
	path, err := filepath.Abs(o.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("invalid document path %s: %w", o.ConfigPath, err)
	}
	return path, nil
}

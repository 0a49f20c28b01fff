package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath turns a document path into a filesystem path. Relative paths
// are joined to baseDir. Backslash separators, as written by documents
// authored on Windows, are accepted on every platform.
func ResolvePath(baseDir, p string) string {
	if os.PathSeparator != '\\' {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

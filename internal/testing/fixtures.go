package testing

import (
	"os"
	"path/filepath"

	"github.com/imamik/modsetup/internal/config"
)

// TB is the part of testing.TB the fixtures use. GinkgoT() satisfies it.
type TB interface {
	Helper()
	TempDir() string
	Cleanup(func())
	Fatalf(format string, args ...interface{})
}

// Workspace is a temporary work dir.
type Workspace struct {
	t   TB
	Dir string
}

// NewWorkspace creates a Workspace removed when the test ends.
func NewWorkspace(t TB) *Workspace {
	t.Helper()
	return &Workspace{t: t, Dir: t.TempDir()}
}

// Path returns rel resolved against the work dir.
func (w *Workspace) Path(rel string) string {
	return config.ResolvePath(w.Dir, rel)
}

// WithFile writes content to rel, creating parent directories.
func (w *Workspace) WithFile(rel, content string) *Workspace {
	w.t.Helper()
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write %s: %v", rel, err)
	}
	return w
}

// WithDocument saves steps as the default setup document.
func (w *Workspace) WithDocument(steps ...config.Step) *Workspace {
	w.t.Helper()
	if err := config.Save(steps, config.DefaultDocumentPath(w.Dir)); err != nil {
		w.t.Fatalf("failed to save setup document: %v", err)
	}
	return w
}

// Exists reports whether rel exists.
func (w *Workspace) Exists(rel string) bool {
	_, err := os.Stat(w.Path(rel))
	return err == nil
}

// Read returns the content of rel, or "" when it cannot be read.
func (w *Workspace) Read(rel string) string {
	// #nosec G304
	data, err := os.ReadFile(w.Path(rel))
	if err != nil {
		return ""
	}
	return string(data)
}

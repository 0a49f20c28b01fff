package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/imamik/modsetup/internal/config"
)

// ResourceReadError reports a content file that exists but cannot be read.
// It is recovered by showing a fallback text in place of the content.
type ResourceReadError struct {
	Path string
	Err  error
}

func (e *ResourceReadError) Error() string {
	return fmt.Sprintf("failed to read step content %s: %v", e.Path, e.Err)
}

func (e *ResourceReadError) Unwrap() error {
	return e.Err
}

// UnreadableContent is the text shown for a content file that cannot be read.
func UnreadableContent(path string) string {
	return fmt.Sprintf("Error: Could not read markdown file at %s", path)
}

// ResolveContent returns the text of a step. The file at ContentPath wins
// when it exists; otherwise the inline Content is used. When the file exists
// but cannot be read the fallback text is returned together with a
// *ResourceReadError.
func ResolveContent(step config.Step, baseDir string) (string, error) {
	if step.ContentPath == "" {
		return step.Content, nil
	}

	path := config.ResolvePath(baseDir, step.ContentPath)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return step.Content, nil
		}
		return UnreadableContent(path), &ResourceReadError{Path: path, Err: err}
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return UnreadableContent(path), &ResourceReadError{Path: path, Err: err}
	}
	return string(data), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDocumentFilename is the setup document looked up in the work dir.
const DefaultDocumentFilename = "setup_steps.yaml"

// ErrNoSteps is returned for a document without any step.
var ErrNoSteps = errors.New("setup document contains no steps")

// ConfigError reports a setup document that cannot be used. It is fatal:
// nothing is recovered from a malformed document.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("setup document %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadResult describes what Load did.
type LoadResult struct {
	Steps []Step
	// Synthesized is true when the document was missing and the demo
	// document was written in its place.
	Synthesized bool
}

// Load reads the setup document at path. When the file does not exist the
// demo document is written to path and returned, so later runs see the same
// steps.
func Load(path string) (*LoadResult, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		steps := DemoSteps()
		if err := Save(steps, path); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to write demo document: %w", err)}
		}
		return &LoadResult{Steps: steps, Synthesized: true}, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}

	steps, err := LoadFromBytes(data, FormatFor(path))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return &LoadResult{Steps: steps}, nil
}

// LoadFromBytes parses a setup document. The document must contain at least
// one step.
func LoadFromBytes(data []byte, format Format) ([]Step, error) {
	steps, err := decodeSteps(data, format)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return steps, nil
}

// Save writes steps to path, creating the parent directory when needed.
func Save(steps []Step, path string) error {
	data, err := encodeSteps(steps, FormatFor(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write setup document: %w", err)
	}
	return nil
}

// DefaultDocumentPath returns the document path inside workDir.
func DefaultDocumentPath(workDir string) string {
	return filepath.Join(workDir, DefaultDocumentFilename)
}

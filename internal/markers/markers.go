// Package markers manages the lifecycle marker files a launcher inspects to
// learn whether setup ran, is running or was interrupted.
package markers

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// InProgressFile exists while a setup run is active. A leftover file
	// means the last run was interrupted.
	InProgressFile = ".setup_in_progress.txt"
	// CompleteFile is written once the sequence completes.
	CompleteFile = ".setup_complete.txt"
)

// State is what a launcher should conclude from the markers.
type State string

const (
	// StatePending means no marker exists: setup should be started.
	StatePending State = "pending"
	// StateRunning means a run is active or was interrupted.
	StateRunning State = "running"
	// StateCompleted means setup finished and the launcher has not
	// acknowledged it yet.
	StateCompleted State = "completed"
)

// Status is the result of inspecting the markers.
type Status struct {
	State   State  `json:"state"`
	Marker  string `json:"marker,omitempty"`
	Message string `json:"message,omitempty"`
	RunID   string `json:"runID,omitempty"`
}

// Store reads and writes the markers in a directory.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a Store for dir.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// InProgressPath returns the in-progress marker path.
func (s *Store) InProgressPath() string {
	return filepath.Join(s.dir, InProgressFile)
}

// CompletePath returns the complete marker path.
func (s *Store) CompletePath() string {
	return filepath.Join(s.dir, CompleteFile)
}

// Begin writes the in-progress marker.
func (s *Store) Begin(runID string) error {
	content := fmt.Sprintf("Setup started at %s\n", s.stamp())
	if runID != "" {
		content += fmt.Sprintf("Run %s\n", runID)
	}
	return s.write(s.InProgressPath(), content)
}

// Complete writes the complete marker and removes the in-progress marker.
func (s *Store) Complete() error {
	if err := s.write(s.CompletePath(), fmt.Sprintf("Setup completed at %s\n", s.stamp())); err != nil {
		return err
	}
	return s.Clear()
}

// Clear removes the in-progress marker. A missing marker is not an error.
func (s *Store) Clear() error {
	return removeIfExists(s.InProgressPath())
}

// Acknowledge consumes the complete marker once the launcher recorded the
// completion. It reports whether a marker was removed.
func (s *Store) Acknowledge() (bool, error) {
	path := s.CompletePath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := removeIfExists(path); err != nil {
		return false, err
	}
	return true, nil
}

// Inspect reports the marker state. The in-progress marker takes precedence
// over the complete marker.
func (s *Store) Inspect() (Status, error) {
	for _, m := range []struct {
		path  string
		state State
	}{
		{s.InProgressPath(), StateRunning},
		{s.CompletePath(), StateCompleted},
	} {
		// #nosec G304
		data, err := os.ReadFile(m.path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Status{}, fmt.Errorf("failed to read marker %s: %w", m.path, err)
		}

		st := Status{State: m.state, Marker: m.path}
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case strings.HasPrefix(line, "Run "):
				st.RunID = strings.TrimPrefix(line, "Run ")
			case st.Message == "" && line != "":
				st.Message = line
			}
		}
		return st, nil
	}

	return Status{State: StatePending}, nil
}

func (s *Store) stamp() string {
	return s.now().Format(time.RFC3339)
}

func (s *Store) write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write marker %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove marker %s: %w", path, err)
	}
	return nil
}

package actions

import (
	"fmt"

	"github.com/imamik/modsetup/internal/config"
)

// Status is the outcome of one entry of a file action.
type Status string

const (
	StatusDone    Status = "done"
	StatusMissing Status = "missing" // source or path did not exist, skipped
	StatusGaveUp  Status = "gave_up" // delete retries exhausted
	StatusFailed  Status = "failed"
)

// EntryResult describes what happened to one path of a file action.
type EntryResult struct {
	Path        string
	Destination string
	Status      Status
	// Attempts counts delete attempts, including the first one.
	Attempts int
	Err      error
}

// Result is the outcome of a single action.
type Result struct {
	Kind    config.ActionKind
	Entries []EntryResult

	// Restart is set when ElevateSelf found the process unprivileged. The
	// caller stops the sequence and relaunches elevated.
	Restart bool
	// Skipped is set for kinds without a handler.
	Skipped bool
	// ExitCode of a waited process, -1 when not known.
	ExitCode int

	// Err joins every fault of the action; nil on success.
	Err error
}

// GaveUp returns the entries whose retries ran out.
func (r Result) GaveUp() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Status == StatusGaveUp {
			out = append(out, e)
		}
	}
	return out
}

// ActionFault reports a failed OS operation of an action.
type ActionFault struct {
	Kind config.ActionKind
	Path string
	Err  error
}

func (f *ActionFault) Error() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Path, f.Err)
}

func (f *ActionFault) Unwrap() error {
	return f.Err
}

package engine

import (
	"errors"

	"github.com/imamik/modsetup/internal/config"
)

var (
	// ErrCompleted is returned when the current step is requested after the
	// sequence finished.
	ErrCompleted = errors.New("setup sequence is completed")
	// ErrEmptySequence is returned for a sequence without steps.
	ErrEmptySequence = errors.New("setup sequence has no steps")
)

// Sequencer tracks the current step. It starts at step 0 and is either
// active at an index or completed.
type Sequencer struct {
	steps     []config.Step
	index     int
	completed bool
}

// NewSequencer creates a sequencer positioned at the first step.
func NewSequencer(steps []config.Step) (*Sequencer, error) {
	if len(steps) == 0 {
		return nil, ErrEmptySequence
	}
	return &Sequencer{steps: steps}, nil
}

// Len returns the number of steps.
func (s *Sequencer) Len() int {
	return len(s.steps)
}

// Index returns the current index. After completion it is the index that
// overflowed the sequence.
func (s *Sequencer) Index() int {
	return s.index
}

// Completed reports whether the sequence finished.
func (s *Sequencer) Completed() bool {
	return s.completed
}

// Current returns the current step, or ErrCompleted.
func (s *Sequencer) Current() (config.Step, error) {
	if s.completed {
		return config.Step{}, ErrCompleted
	}
	return s.steps[s.index], nil
}

// Advance moves to the next step and reports whether the sequence is now
// completed.
func (s *Sequencer) Advance() bool {
	if s.completed {
		return true
	}
	return s.Jump(s.index + 1)
}

// Jump moves to target and reports whether the sequence is now completed.
// A target past the last step completes the sequence; a negative target is
// treated as 0.
func (s *Sequencer) Jump(target int) bool {
	if target < 0 {
		target = 0
	}
	s.index = target
	s.completed = target >= len(s.steps)
	return s.completed
}

// Skip advances past the current step when it is skippable. It reports
// whether the step was skipped.
func (s *Sequencer) Skip() bool {
	step, err := s.Current()
	if err != nil || !step.Skippable {
		return false
	}
	s.Advance()
	return true
}

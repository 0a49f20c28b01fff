package testing

import (
	"github.com/imamik/modsetup/internal/config"
)

// StepBuilder provides a fluent interface for constructing test steps.
// Each method returns a new builder (immutable) for chaining.
type StepBuilder struct {
	step config.Step
}

// NewStep creates a skippable, non-branch step showing content.
func NewStep(content string) *StepBuilder {
	return &StepBuilder{
		step: config.Step{
			Content:   content,
			Skippable: true,
		},
	}
}

// WithContentPath sets the page file the step is read from.
func (b *StepBuilder) WithContentPath(path string) *StepBuilder {
	newBuilder := b.clone()
	newBuilder.step.ContentPath = path
	return newBuilder
}

// WithImage sets the step image.
func (b *StepBuilder) WithImage(path string) *StepBuilder {
	newBuilder := b.clone()
	newBuilder.step.Image = path
	return newBuilder
}

// WithActions appends to the action list run on confirm.
func (b *StepBuilder) WithActions(actions ...config.Action) *StepBuilder {
	newBuilder := b.clone()
	newBuilder.step.Actions = append(newBuilder.step.Actions, actions...)
	return newBuilder
}

// Branch turns the step into a yes/no question with the given lists.
func (b *StepBuilder) Branch(yes, no []config.Action) *StepBuilder {
	newBuilder := b.clone()
	newBuilder.step.IsBranch = true
	newBuilder.step.YesActions = cloneActions(yes)
	newBuilder.step.NoActions = cloneActions(no)
	return newBuilder
}

// Required makes the step not skippable.
func (b *StepBuilder) Required() *StepBuilder {
	newBuilder := b.clone()
	newBuilder.step.Skippable = false
	return newBuilder
}

// Build returns the constructed step.
func (b *StepBuilder) Build() config.Step {
	return b.clone().step
}

func (b *StepBuilder) clone() *StepBuilder {
	s := b.step
	s.Actions = cloneActions(s.Actions)
	s.YesActions = cloneActions(s.YesActions)
	s.NoActions = cloneActions(s.NoActions)
	return &StepBuilder{step: s}
}

func cloneActions(actions []config.Action) []config.Action {
	if actions == nil {
		return nil
	}
	out := make([]config.Action, len(actions))
	for i, a := range actions {
		if a.PathMap != nil {
			a.PathMap = append(config.PathMap{}, a.PathMap...)
		}
		if a.Paths != nil {
			a.Paths = append([]string{}, a.Paths...)
		}
		out[i] = a
	}
	return out
}

// Elevate returns an ElevateSelf action.
func Elevate() config.Action {
	return config.Action{Kind: config.KindElevateSelf}
}

// Launch returns a LaunchProcess action that waits for the process.
func Launch(app, args string) config.Action {
	return config.Action{Kind: config.KindLaunchProcess, AppPath: app, AppArgs: args, Wait: true}
}

// Jump returns a JumpToStep action.
func Jump(target int) config.Action {
	return config.Action{Kind: config.KindJumpToStep, StepIndex: config.Int(target)}
}

// Copy returns a CopyPaths action. pairs alternate source and destination.
func Copy(pairs ...string) config.Action {
	return config.Action{Kind: config.KindCopyPaths, PathMap: pathMap(pairs)}
}

// Move returns a MovePaths action. pairs alternate source and destination.
func Move(pairs ...string) config.Action {
	return config.Action{Kind: config.KindMovePaths, PathMap: pathMap(pairs)}
}

// Delete returns a DeletePaths action.
func Delete(paths ...string) config.Action {
	return config.Action{Kind: config.KindDeletePaths, Paths: paths}
}

// Unknown returns an action of a kind no runner handles.
func Unknown(kind string) config.Action {
	return config.Action{Kind: config.ActionKind(kind)}
}

func pathMap(pairs []string) config.PathMap {
	if len(pairs)%2 != 0 {
		panic("path pairs must alternate source and destination")
	}
	m := make(config.PathMap, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m = append(m, config.PathMapping{Source: pairs[i], Destination: pairs[i+1]})
	}
	return m
}

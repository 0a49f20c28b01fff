package config

// ActionKind identifies what an [Action] does.
//
// Kinds are kept as strings so that documents naming a kind this build does
// not know still load; the engine reports such actions and moves past them.
type ActionKind string

const (
	// KindElevateSelf relaunches the tool with administrative privilege.
	KindElevateSelf ActionKind = "ElevateSelf"
	// KindLaunchProcess starts an external executable.
	KindLaunchProcess ActionKind = "LaunchProcess"
	// KindJumpToStep moves the sequencer to another step.
	KindJumpToStep ActionKind = "JumpToStep"
	// KindCopyPaths copies files or directory trees.
	KindCopyPaths ActionKind = "CopyPaths"
	// KindMovePaths copies files or directory trees and removes the sources.
	KindMovePaths ActionKind = "MovePaths"
	// KindDeletePaths removes files or directory trees.
	KindDeletePaths ActionKind = "DeletePaths"
)

// legacyKinds maps the step type names used by older setup documents.
var legacyKinds = map[string]ActionKind{
	"RunAsAdmin":     KindElevateSelf,
	"RunApplication": KindLaunchProcess,
	"MoveToStep":     KindJumpToStep,
	"CopyFiles":      KindCopyPaths,
	"MoveFiles":      KindMovePaths,
	"DeleteFiles":    KindDeletePaths,
}

// KnownKinds lists every kind with a handler, in documentation order.
var KnownKinds = []ActionKind{
	KindElevateSelf,
	KindLaunchProcess,
	KindJumpToStep,
	KindCopyPaths,
	KindMovePaths,
	KindDeletePaths,
}

// ParseActionKind normalizes a step type name. Legacy aliases map to their
// canonical kind; unknown names are returned unchanged.
func ParseActionKind(s string) ActionKind {
	if k, ok := legacyKinds[s]; ok {
		return k
	}
	return ActionKind(s)
}

// Known reports whether the kind has a handler.
func (k ActionKind) Known() bool {
	for _, known := range KnownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the kind name.
func (k ActionKind) String() string {
	return string(k)
}

// PathMapping is one source to destination entry of a [PathMap].
type PathMapping struct {
	Source      string
	Destination string
}

// PathMap is an ordered source to destination mapping. Document order is
// preserved on load and on save.
type PathMap []PathMapping

// Sources returns the source paths in order.
func (m PathMap) Sources() []string {
	out := make([]string, 0, len(m))
	for _, e := range m {
		out = append(out, e.Source)
	}
	return out
}

// Action is a single executable unit of a step's action list.
//
// Fields that do not apply to Kind are ignored rather than validated.
type Action struct {
	Kind ActionKind

	// LaunchProcess
	AppPath string
	AppArgs string
	Wait    bool

	// JumpToStep; nil means step 0.
	StepIndex *int

	// CopyPaths, MovePaths
	PathMap PathMap

	// DeletePaths
	Paths []string

	// Delay is carried through load and save but has no behavior yet.
	Delay *int
}

// TargetIndex returns the jump target, defaulting to 0 when unset.
func (a Action) TargetIndex() int {
	if a.StepIndex == nil {
		return 0
	}
	return *a.StepIndex
}

// Step is one page of the setup sequence.
type Step struct {
	// Content is inline text, used unless ContentPath resolves to a file.
	Content     string
	ContentPath string
	// Image is presentation-only.
	Image string

	Actions []Action

	// IsBranch makes the step a yes/no question instead of a single
	// confirmation.
	IsBranch   bool
	YesActions []Action
	NoActions  []Action

	Skippable bool
}

// ActionsFor returns the list the engine runs for a step, given whether the
// step was confirmed (branch is false) or answered (branch is true, yes
// selects the answer).
func (s Step) ActionsFor(branch, yes bool) []Action {
	switch {
	case !branch:
		return s.Actions
	case yes:
		return s.YesActions
	default:
		return s.NoActions
	}
}

// Int returns a pointer to v, for optional integer fields.
func Int(v int) *int {
	return &v
}

package engine

// Intent is a user decision sent to the engine.
type Intent int

const (
	// IntentConfirm runs the action list of a non-branch step.
	IntentConfirm Intent = iota
	// IntentSkip advances past a skippable step without running anything.
	IntentSkip
	// IntentChooseYes runs the yes list of a branch step.
	IntentChooseYes
	// IntentChooseNo runs the no list of a branch step.
	IntentChooseNo
)

func (i Intent) String() string {
	switch i {
	case IntentConfirm:
		return "confirm"
	case IntentSkip:
		return "skip"
	case IntentChooseYes:
		return "yes"
	case IntentChooseNo:
		return "no"
	default:
		return "unknown"
	}
}

// Controls tells the presentation which inputs are enabled.
type Controls struct {
	Confirm bool
	Skip    bool
	Yes     bool
	No      bool
	// Branch selects the yes/no layout instead of a single confirmation.
	Branch bool
}

// Enabled reports whether the intent is currently accepted.
func (c Controls) Enabled(i Intent) bool {
	switch i {
	case IntentConfirm:
		return c.Confirm
	case IntentSkip:
		return c.Skip
	case IntentChooseYes:
		return c.Yes
	case IntentChooseNo:
		return c.No
	default:
		return false
	}
}

// Snapshot is the presentation state published after every change.
type Snapshot struct {
	// Version increases with every published snapshot.
	Version   uint64
	RunID     string
	Index     int
	Total     int
	Completed bool
	Busy      bool

	Text  string
	Image string

	// Action is the kind of the action in flight, if any.
	Action      string
	ActionIndex int
	ActionCount int

	Controls Controls
}

func controlsFor(isBranch, skippable, busy bool) Controls {
	if busy {
		return Controls{Branch: isBranch}
	}
	return Controls{
		Confirm: !isBranch,
		Skip:    skippable,
		Yes:     isBranch,
		No:      isBranch,
		Branch:  isBranch,
	}
}

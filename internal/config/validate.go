package config

import "fmt"

// Warning points at a document entry that loads but will not behave as its
// author probably expects. Warnings never stop a run.
type Warning struct {
	Step    int
	List    string
	Action  int
	Message string
}

func (w Warning) String() string {
	if w.List == "" {
		return fmt.Sprintf("step %d: %s", w.Step, w.Message)
	}
	return fmt.Sprintf("step %d %s[%d]: %s", w.Step, w.List, w.Action, w.Message)
}

// Validate inspects a loaded document. Unknown kinds, out-of-range jumps and
// actions missing the field their kind needs are reported.
func Validate(steps []Step) []Warning {
	var warnings []Warning

	for i, s := range steps {
		if s.IsBranch && len(s.Actions) > 0 {
			warnings = append(warnings, Warning{
				Step:    i,
				Message: "branch step ignores its actions list, use yesActions and noActions",
			})
		}
		if !s.IsBranch && (len(s.YesActions) > 0 || len(s.NoActions) > 0) {
			warnings = append(warnings, Warning{
				Step:    i,
				Message: "yesActions and noActions only run on branch steps (switchStep: true)",
			})
		}

		warnings = append(warnings, validateActions(i, "actions", s.Actions, len(steps))...)
		warnings = append(warnings, validateActions(i, "yesActions", s.YesActions, len(steps))...)
		warnings = append(warnings, validateActions(i, "noActions", s.NoActions, len(steps))...)
	}

	return warnings
}

func validateActions(step int, list string, actions []Action, total int) []Warning {
	var warnings []Warning
	warn := func(idx int, format string, args ...interface{}) {
		warnings = append(warnings, Warning{
			Step:    step,
			List:    list,
			Action:  idx,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for j, a := range actions {
		switch a.Kind {
		case KindLaunchProcess:
			if a.AppPath == "" {
				warn(j, "LaunchProcess without appPath")
			}
		case KindJumpToStep:
			target := a.TargetIndex()
			if target < 0 {
				warn(j, "stepIndex %d is negative and will jump to step 0", target)
			} else if target >= total {
				warn(j, "stepIndex %d is past the last step and finishes setup", target)
			}
			if j < len(actions)-1 {
				warn(j, "%d action(s) after JumpToStep never run", len(actions)-1-j)
			}
		case KindCopyPaths, KindMovePaths:
			if len(a.PathMap) == 0 {
				warn(j, "%s without fileMaps does nothing", a.Kind)
			}
		case KindDeletePaths:
			if len(a.Paths) == 0 {
				warn(j, "DeletePaths without filePaths does nothing")
			}
		case KindElevateSelf:
		default:
			warn(j, "unknown stepType %q is skipped", a.Kind)
		}
	}

	return warnings
}
